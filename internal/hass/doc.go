// Package hass is the Home Assistant API client for hadeck.
//
// It wraps the REST API for reading entity state and calling services, and
// the websocket API for push delivery of state_changed events. The client
// is the command service behind the climate control core: its
// SetTemperature/SetHVACMode methods implement climate.Commander.
//
// # Usage Example
//
//	client := hass.NewClient("http://homeassistant.local:8123", token)
//
//	entities, err := client.ClimateStates(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = client.SetTemperature(ctx, "climate.living_room", 21.5)
//
// # Retry Behavior
//
// Read requests (States, State, Ping) retry with exponential backoff on
// retryable failures. Service calls are performed exactly once: the caller
// cannot tell whether a failed call was applied server-side, so re-sending
// it automatically risks duplicate commands.
//
// # Errors
//
// All failures are returned as *APIError with a classified type (network,
// auth, HTTP, parse, not-found). ShortErrorMessage and TroubleshootingHint
// turn them into user-facing text for the CLI and dashboard.
package hass
