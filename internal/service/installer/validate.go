package installer

import (
	"errors"
	"strconv"
	"strings"
)

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("value is required")
	}
	return nil
}

func validateMongoURI(v string) error {
	if err := required(v); err != nil {
		return err
	}
	if !strings.HasPrefix(v, "mongodb://") && !strings.HasPrefix(v, "mongodb+srv://") {
		return errors.New("URI must start with mongodb:// or mongodb+srv://")
	}
	return nil
}

func validateOwnerID(v string) error {
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return errors.New("user ID must be a number")
	}
	return nil
}
