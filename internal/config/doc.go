// Package config provides configuration parsing for the storekit CLI.
//
// The configuration is stored in storekit.yaml. Every field is optional;
// missing values take the defaults below.
//
// # Configuration File Structure
//
//	service:
//	  name: storekit
//	log:
//	  level: info      # debug, info, warn, error
//	  format: text     # text or json
//	runtime:
//	  queueSize: 256
//	demo:
//	  delay: 200ms
//	  iterations: 3
//	  failEvery: 0     # fail every Nth load, 0 never fails
//	  timeout: 5s
//	metrics:
//	  addr: ""         # e.g. ":9090" serves /metrics
//	  namespace: storekit
//	tracing:
//	  enabled: false
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Delay:", cfg.Demo.Delay)
package config
