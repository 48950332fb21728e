//go:build windows

// pkg/locator/registry_windows.go
package locator

import (
	"golang.org/x/sys/windows/registry"
)

type winRegistry struct{}

func hostRegistry() RegistryReader {
	return winRegistry{}
}

func (winRegistry) root(h Hive) registry.Key {
	if h == LocalMachine {
		return registry.LOCAL_MACHINE
	}
	return registry.CURRENT_USER
}

func (w winRegistry) SubKeys(hive Hive, path string) ([]string, error) {
	k, err := registry.OpenKey(w.root(hive), path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer k.Close()
	return k.ReadSubKeyNames(-1)
}

func (w winRegistry) StringValue(hive Hive, path, name string) (string, error) {
	k, err := registry.OpenKey(w.root(hive), path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer k.Close()
	val, _, err := k.GetStringValue(name)
	return val, err
}
