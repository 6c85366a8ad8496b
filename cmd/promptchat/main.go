package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/hotaru-ai/promptchat/pkg/backend"
	"github.com/hotaru-ai/promptchat/pkg/chat"
	"github.com/hotaru-ai/promptchat/pkg/config"
	"github.com/hotaru-ai/promptchat/pkg/gateway"
	"github.com/hotaru-ai/promptchat/pkg/logger"
	"github.com/hotaru-ai/promptchat/pkg/prompt"
	"github.com/hotaru-ai/promptchat/pkg/qualitylog"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

const appName = "promptchat"

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func formatBuildInfo() (build string, goVer string) {
	if buildTime != "" {
		build = buildTime
	}
	goVer = goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return
}

func printVersion() {
	fmt.Printf("%s %s\n", appName, formatVersion())
	build, goVer := formatBuildInfo()
	if build != "" {
		fmt.Printf("  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Printf("  Go: %s\n", goVer)
	}
}

func main() {
	if err := executeCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getConfigPath() string {
	if p := os.Getenv("PROMPTCHAT_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".promptchat", "config.json")
	}
	return filepath.Join(home, ".promptchat", "config.json")
}

func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

// buildService wires the chat service from config: backend loader, optional
// verdict log. The returned closer may be nil.
func buildService(cfg *config.Config) (*chat.Service, *qualitylog.Store, error) {
	var loader backend.Loader
	if cfg.Chat.MockMode {
		loader = backend.NewMockLoader()
	} else {
		loader = backend.NewHTTPLoader(cfg.Backend.BaseURL)
	}

	var verdicts *qualitylog.Store
	if cfg.QualityLog.Path != "" {
		var err error
		verdicts, err = qualitylog.NewStore(cfg.QualityLog.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open quality log: %w", err)
		}
	}

	return chat.NewService(cfg, loader, verdicts), verdicts, nil
}

func onboard() {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists at %s\n", configPath)
		fmt.Print("Overwrite? (y/n): ")
		reader := bufio.NewReader(os.Stdin)
		response, readErr := reader.ReadString('\n')
		if readErr != nil {
			fmt.Printf("Error reading input: %v\n", readErr)
			fmt.Println("Aborted.")
			return
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	cfg := config.DefaultConfig()
	if err := config.SaveConfig(configPath, cfg); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s is ready!\n", appName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Point backend.base_url in", configPath, "at your generation backend")
	fmt.Println("  2. Chat locally: promptchat chat -m \"こんにちは\"")
	fmt.Println("  3. Run the API: promptchat serve")
	fmt.Println("  4. Check readiness: promptchat status")
}

func chatCmd() {
	message := ""
	sessionID := ""
	modelKey := ""
	taskType := ""

	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--debug", "-d":
			logger.SetLevel(logger.DEBUG)
			fmt.Println("🔍 Debug mode enabled")
		case "-m", "--message":
			if i+1 < len(args) {
				message = args[i+1]
				i++
			}
		case "-s", "--session":
			if i+1 < len(args) {
				sessionID = args[i+1]
				i++
			}
		case "--model":
			if i+1 < len(args) {
				modelKey = args[i+1]
				i++
			}
		case "--task":
			if i+1 < len(args) {
				taskType = args[i+1]
				i++
			}
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	svc, verdicts, err := buildService(cfg)
	if err != nil {
		fmt.Printf("Error initializing chat service: %v\n", err)
		os.Exit(1)
	}
	defer verdicts.Close()

	if message != "" {
		resp, err := svc.Chat(context.Background(), chat.Request{
			Message:   message,
			SessionID: sessionID,
			ModelKey:  modelKey,
			Task:      prompt.TaskType(taskType),
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s %s\n", appName, resp.Response)
		return
	}

	fmt.Printf("%s Interactive mode (Ctrl+C to exit)\n\n", appName)
	interactiveMode(svc, sessionID, modelKey)
}

func interactiveMode(svc *chat.Service, sessionID, modelKey string) {
	promptStr := fmt.Sprintf("%s You: ", appName)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptStr,
		HistoryFile:     filepath.Join(os.TempDir(), ".promptchat_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		simpleInteractiveMode(svc, sessionID, modelKey)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		resp, err := svc.Chat(context.Background(), chat.Request{
			Message:   input,
			SessionID: sessionID,
			ModelKey:  modelKey,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		// Keep the minted id so the conversation continues.
		sessionID = resp.SessionID

		fmt.Printf("\n%s %s\n\n", appName, resp.Response)
	}
}

func simpleInteractiveMode(svc *chat.Service, sessionID, modelKey string) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s You: ", appName)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return
		}

		resp, err := svc.Chat(context.Background(), chat.Request{
			Message:   input,
			SessionID: sessionID,
			ModelKey:  modelKey,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		sessionID = resp.SessionID

		fmt.Printf("\n%s %s\n\n", appName, resp.Response)
	}
}

func serveCmd() {
	args := os.Args[2:]
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			logger.SetLevel(logger.DEBUG)
			fmt.Println("🔍 Debug mode enabled")
			break
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	svc, verdicts, err := buildService(cfg)
	if err != nil {
		fmt.Printf("Error initializing chat service: %v\n", err)
		os.Exit(1)
	}
	defer verdicts.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go svc.RunJanitor(ctx, cfg.Janitor.Schedule)

	addr := cfg.GatewayAddr()
	fmt.Printf("✓ Gateway started on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	srv := gateway.NewServer(svc, verdicts, cfg.Chat.DefaultModel)
	if err := srv.Run(ctx, addr); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Gateway stopped")
}

func statusCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	configPath := getConfigPath()

	fmt.Printf("%s Status\n", appName)
	fmt.Printf("Version: %s\n", formatVersion())
	build, _ := formatBuildInfo()
	if build != "" {
		fmt.Printf("Build: %s\n", build)
	}
	fmt.Println()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config:", configPath, "✓")
	} else {
		fmt.Println("Config:", configPath, "✗ (defaults in effect)")
	}

	fmt.Println("Backend:", cfg.Backend.BaseURL)
	if cfg.Chat.MockMode {
		fmt.Println("Mode: mock")
	}
	fmt.Println("Default model:", cfg.Chat.DefaultModel)
	fmt.Println("Model cache dir:", cfg.CacheDirPath())
	fmt.Printf("Sessions: max %d, timeout %s, history %d messages\n",
		cfg.Chat.MaxSessions, cfg.SessionTimeout(), cfg.Chat.MaxHistoryMessages)
	if cfg.QualityLog.Path != "" {
		fmt.Println("Quality log:", cfg.QualityLog.Path)
	}
}

func modelsCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Println("Available models:")
	for _, info := range config.ListModels() {
		marker := " "
		if info.Key == cfg.Chat.DefaultModel {
			marker = "*"
		}
		rec := ""
		if info.Recommended {
			rec = " (recommended)"
		}
		fmt.Printf("  %s %-14s %-40s %s%s\n", marker, info.Key, info.Name, info.Size, rec)
		fmt.Printf("      %s\n", info.Description)
	}
}

// sessionsCmd queries a running gateway for its active sessions.
func sessionsCmd() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	host := cfg.Gateway.Host
	if host == "0.0.0.0" || host == "" {
		host = "127.0.0.1"
	}
	url := fmt.Sprintf("http://%s:%d/api/chat/sessions", host, cfg.Gateway.Port)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error: gateway not reachable at %s (%v)\n", url, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var body struct {
		Sessions []struct {
			SessionID    string    `json:"session_id"`
			MessageCount int       `json:"message_count"`
			CreatedAt    time.Time `json:"created_at"`
			LastAccess   time.Time `json:"last_access"`
		} `json:"sessions"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Active sessions: %d\n", body.Total)
	for _, s := range body.Sessions {
		fmt.Printf("  %s  %d messages  last active %s\n",
			s.SessionID, s.MessageCount, s.LastAccess.Format(time.RFC3339))
	}
}
