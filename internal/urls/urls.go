package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the official Home Assistant documentation.

// LongLivedTokens is the authentication guide covering profile-based
// long-lived access tokens used by 'hadeck login'.
const LongLivedTokens = "https://www.home-assistant.io/docs/authentication/#your-account-profile"

// RestAPI is the REST API reference for the states and services endpoints
// hadeck calls.
const RestAPI = "https://developers.home-assistant.io/docs/api/rest/"

// WebsocketAPI is the websocket API reference covering the auth handshake
// and event subscriptions used for live state updates.
const WebsocketAPI = "https://developers.home-assistant.io/docs/api/websocket/"

// ClimateIntegration documents the climate entity model (HVAC modes,
// target temperatures, attributes).
const ClimateIntegration = "https://www.home-assistant.io/integrations/climate/"

// NetworkTroubleshooting covers common connectivity problems, including
// mDNS discovery and reverse-proxy setups.
const NetworkTroubleshooting = "https://www.home-assistant.io/docs/configuration/troubleshooting/"
