// Package config loads the cueboard YAML configuration, applies environment
// overrides, fills defaults, and validates the result. It is read once at
// startup.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//
// Device and broker passwords and the InfluxDB token belong in environment
// variables, not the config file; the file itself should be mode 0600.
package config
