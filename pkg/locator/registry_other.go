//go:build !windows

// pkg/locator/registry_other.go
package locator

import (
	"fmt"

	"github.com/arc-language/pyman/pkg/core"
)

type noRegistry struct{}

func hostRegistry() RegistryReader {
	return noRegistry{}
}

func (noRegistry) SubKeys(hive Hive, path string) ([]string, error) {
	return nil, fmt.Errorf("registry %s\\%s: %w", hive, path, core.ErrPlatformNotSupported)
}

func (noRegistry) StringValue(hive Hive, path, name string) (string, error) {
	return "", fmt.Errorf("registry %s\\%s: %w", hive, path, core.ErrPlatformNotSupported)
}
