// Package file provides a TOML file-based implementation of driven.ConfigStore.
//
// Settings are stored at ~/.corpus/config.toml by default. The file is
// written with restricted permissions and rewritten whole on every save.
package file
