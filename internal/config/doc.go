// Package config provides the keyconfig configuration.
//
// Configuration is layered with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← KEYCONFIG_*
//	├─────────────────────────────┤
//	│  2. User Config File        │  ← ~/.config/keyconfig/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Flags are applied by the caller after Load returns.
//
// # Sub-packages
//
//   - loader: TOML file and environment variable loading
//   - watcher: fsnotify based file watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Daemon.Backend)
package config
