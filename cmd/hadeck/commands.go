package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pr8x/hadeck/internal/climate"
	"github.com/pr8x/hadeck/internal/config"
	"github.com/pr8x/hadeck/internal/discovery"
	"github.com/pr8x/hadeck/internal/hass"
	"github.com/pr8x/hadeck/internal/tui"
)

// Command flags
var (
	serverURL    string
	accessToken  string
	scanTimeout  int
	outputFormat string
)

func init() {
	// Common flags for server commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Home Assistant base URL (skips config/discovery)")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", "", "Long-lived access token (overrides stored token)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(setTempCmd)
	rootCmd.AddCommand(setModeCmd)
}

// dashboardCmd launches the interactive TUI dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive climate dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard shows one panel per climate entity with live updates over
the Home Assistant websocket API. Temperature edits are coalesced and
sent after a short quiet period; the panel re-syncs against server state
after every command.

This is the recommended way to use hadeck and the default when no
command is given.`,
	Example: `  # Launch with the configured server
  hadeck
  hadeck dashboard

  # Launch against a specific server
  hadeck dashboard --server http://192.168.1.10:8123 --token <token>`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	client, registry, err := getClient()
	if err != nil {
		return err
	}

	model := tui.NewAppModel(client, registry)

	// Mouse support for wheel-based temperature adjustment
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	registry.UpdateServerLastSeen()
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// scanCmd discovers Home Assistant servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Home Assistant servers on the network",
	Long: `Scan for Home Assistant servers using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from Home Assistant and displays
all discovered instances with their URLs, versions, and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  hadeck scan

  # Quick 3-second scan
  hadeck scan --timeout 3`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Home Assistant servers (timeout: %ds)...\n\n", scanTimeout)

	instances, err := discovery.Scan(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(instances) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure Home Assistant is running on this network")
		fmt.Println("  - Check that mDNS (UDP port 5353) is not blocked")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --server flag to specify the URL manually")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(instances))

	for i, instance := range instances {
		fmt.Printf("%d. %s\n", i+1, instance.Name)
		fmt.Printf("   URL:     %s\n", instance.BaseURL())
		if instance.Version != "" {
			fmt.Printf("   Version: %s\n", instance.Version)
		}
		fmt.Println()
	}

	fmt.Println("Use 'hadeck login --server <url>' to connect to a server")

	return nil
}

// loginCmd stores the server URL and access token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Connect to a Home Assistant server",
	Long: `Store the server URL and a long-lived access token.

Create the token in your Home Assistant profile (Security tab, "Long-lived
access tokens"). The token is prompted without echo and verified against
the server before it is saved to the config file with user-only
permissions.

When no --server is given, the local network is scanned and a single
discovered server is used automatically.`,
	Example: `  # Discover the server and prompt for a token
  hadeck login

  # Connect to a specific server
  hadeck login --server http://192.168.1.10:8123`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	url := serverURL
	name := ""
	if url == "" && registry.HasServer() {
		url = registry.Server.URL
		name = registry.Server.Name
		fmt.Printf("Using configured server: %s\n", url)
	}
	if url == "" {
		instance, err := discoverSingleServer()
		if err != nil {
			return err
		}
		url = instance.BaseURL()
		name = instance.Name
		fmt.Printf("Found server: %s (%s)\n", instance.Name, url)
	}

	token := accessToken
	if token == "" {
		fmt.Print("Access token (input hidden): ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return fmt.Errorf("no token provided")
	}

	// Verify before storing
	client := hass.NewClient(url, token)
	if err := client.Ping(context.Background()); err != nil {
		fmt.Println(hass.TroubleshootingHint(err))
		return fmt.Errorf("verification failed: %w", err)
	}

	registry.SetServer(url, name, token)
	registry.UpdateServerLastSeen()
	if err := registry.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Connected to %s\n", url)
	return nil
}

// entitiesCmd lists climate entities on the server
var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List climate entities",
	Long: `List all climate entities known to the server with their current
state, target temperature and available modes.`,
	Example: `  # List climate entities
  hadeck entities

  # JSON output for scripting
  hadeck entities --format json`,
	RunE: runEntities,
}

func runEntities(cmd *cobra.Command, args []string) error {
	client, registry, err := getClient()
	if err != nil {
		return err
	}

	entities, err := client.ClimateStates(context.Background())
	if err != nil {
		fmt.Println(hass.TroubleshootingHint(err))
		return fmt.Errorf("failed to list entities: %w", err)
	}

	if len(entities) == 0 {
		fmt.Println("No climate entities found.")
		return nil
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(entities, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, entity := range entities {
		snap := entity.ClimateSnapshot()

		name := entity.FriendlyName()
		if meta := registry.GetEntity(entity.EntityID); meta != nil && meta.Nickname != "" {
			name = meta.Nickname
		}

		if outputFormat == "compact" {
			fmt.Printf("%-32s %s\n", entity.EntityID, entity.State)
			continue
		}

		fmt.Printf("%s (%s)\n", name, entity.EntityID)
		if snap.Unavailable() {
			fmt.Println("   State:   unavailable")
			fmt.Println()
			continue
		}

		limits := climate.DeriveLimits(snap)
		fmt.Printf("   State:   %s\n", entity.State)
		if snap.CurrentTemperature != nil {
			fmt.Printf("   Current: %.1f%s\n", *snap.CurrentTemperature, limits.Unit)
		}
		if snap.TargetTemperature != nil {
			fmt.Printf("   Target:  %.1f%s\n", *snap.TargetTemperature, limits.Unit)
		}
		if len(snap.AvailableModes) > 0 {
			fmt.Printf("   Modes:   %s\n", strings.Join(snap.AvailableModes, ", "))
		}
		fmt.Println()
	}

	return nil
}

// setTempCmd directly sets a target temperature
var setTempCmd = &cobra.Command{
	Use:   "set-temp <entity-id> <temperature>",
	Short: "Set the target temperature of an entity",
	Long: `Directly set the target temperature without using the dashboard.

The value is clamped into the limits the entity reports.`,
	Example: `  # Set the living room thermostat to 21.5 degrees
  hadeck set-temp climate.living_room 21.5`,
	Args: cobra.ExactArgs(2),
	RunE: runSetTemp,
}

func runSetTemp(cmd *cobra.Command, args []string) error {
	client, _, err := getClient()
	if err != nil {
		return err
	}

	entityID := args[0]
	temperature, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid temperature value: %w", err)
	}

	ctx := context.Background()

	// Clamp into the entity's reported limits
	entity, err := client.State(ctx, entityID)
	if err != nil {
		fmt.Println(hass.TroubleshootingHint(err))
		return fmt.Errorf("failed to read entity state: %w", err)
	}
	snap := entity.ClimateSnapshot()
	limits := climate.DeriveLimits(snap)
	clamped := climate.Clamp(temperature, limits.Min, limits.Max)
	if clamped != temperature {
		fmt.Printf("Clamped %.1f to %.1f (limits %.1f to %.1f)\n", temperature, clamped, limits.Min, limits.Max)
	}

	if err := client.SetTemperature(ctx, entityID, clamped); err != nil {
		fmt.Println(hass.TroubleshootingHint(err))
		return fmt.Errorf("command failed: %w", err)
	}

	fmt.Printf("✓ %s target set to %.1f%s\n", entityID, clamped, limits.Unit)
	return nil
}

// setModeCmd directly sets an HVAC mode
var setModeCmd = &cobra.Command{
	Use:   "set-mode <entity-id> <mode>",
	Short: "Set the HVAC mode of an entity",
	Long: `Directly set the HVAC mode without using the dashboard.

The mode must be one of the modes the entity reports as available
(e.g. off, heat, cool, auto).`,
	Example: `  # Switch the living room thermostat to heating
  hadeck set-mode climate.living_room heat`,
	Args: cobra.ExactArgs(2),
	RunE: runSetMode,
}

func runSetMode(cmd *cobra.Command, args []string) error {
	client, _, err := getClient()
	if err != nil {
		return err
	}

	entityID := args[0]
	mode := args[1]

	ctx := context.Background()

	entity, err := client.State(ctx, entityID)
	if err != nil {
		fmt.Println(hass.TroubleshootingHint(err))
		return fmt.Errorf("failed to read entity state: %w", err)
	}
	snap := entity.ClimateSnapshot()

	if len(snap.AvailableModes) > 0 && !containsMode(snap.AvailableModes, mode) {
		return fmt.Errorf("mode %q not available for %s (available: %s)",
			mode, entityID, strings.Join(snap.AvailableModes, ", "))
	}

	if err := client.SetHVACMode(ctx, entityID, mode); err != nil {
		fmt.Println(hass.TroubleshootingHint(err))
		return fmt.Errorf("command failed: %w", err)
	}

	fmt.Printf("✓ %s mode set to %s\n", entityID, mode)
	return nil
}

// getClient builds the API client from flags, the stored config, or discovery.
func getClient() (*hass.Client, *config.Registry, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	url := serverURL
	if url == "" && registry.HasServer() {
		url = registry.Server.URL
	}
	if url == "" && registry.Preferences != nil && registry.Preferences.AutoDiscover {
		instance, err := discoverSingleServer()
		if err != nil {
			return nil, nil, err
		}
		url = instance.BaseURL()
		registry.SetServer(url, instance.Name, "")
	}
	if url == "" {
		return nil, nil, fmt.Errorf("no server configured. Run 'hadeck login' or pass --server")
	}

	token := accessToken
	if token == "" && registry.Server != nil {
		token = registry.Server.Token
	}
	if token == "" {
		return nil, nil, fmt.Errorf("no access token. Run 'hadeck login' or pass --token")
	}

	return hass.NewClient(url, token), registry, nil
}

// discoverSingleServer scans the network and expects exactly one server.
func discoverSingleServer() (*discovery.Instance, error) {
	fmt.Println("No server configured, attempting auto-discovery...")

	instances, err := discovery.Scan(5 * time.Second)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	if len(instances) == 0 {
		return nil, fmt.Errorf("no servers found. Use --server to specify the URL manually")
	}

	if len(instances) > 1 {
		fmt.Printf("Found %d servers:\n", len(instances))
		for i, instance := range instances {
			fmt.Printf("%d. %s (%s)\n", i+1, instance.Name, instance.BaseURL())
		}
		return nil, fmt.Errorf("multiple servers found. Use --server to specify which one")
	}

	return instances[0], nil
}

func containsMode(modes []string, mode string) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}
