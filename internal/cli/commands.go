package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quantalpha/quantalpha/config"
	"github.com/quantalpha/quantalpha/internal/agents"
	"github.com/quantalpha/quantalpha/internal/dataflows"
	"github.com/quantalpha/quantalpha/internal/display"
	"github.com/quantalpha/quantalpha/internal/storage"
	"github.com/quantalpha/quantalpha/internal/workflow"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "quantalpha",
		Short: "QuantAlpha - AI 多层智能体投研面板",
		Long: `QuantAlpha 是一个多层大模型智能体投研系统。
四个层级（分析师、经理、风控、总经理）依次对沪深个股给出分析，
并对最终报告中的价格区间做自动合理性校验。`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(cfg)
		},
	}

	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "对单只股票运行完整智能体分析",
		Long: `对给定的沪深股票代码运行完整的四层智能体分析流程。
示例: quantalpha analyze 600519`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				s, err := PromptForSymbol()
				if err != nil {
					return err
				}
				symbol = s
			}
			return runAnalyzeCommand(cfg, symbol)
		},
	}

	return cmd
}

// newHistoryCmd lists recorded analysis runs
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "查看历史分析记录",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open run store: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				runID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid run id %q", args[0])
				}
				return showRunOutputs(cmd.Context(), store, runID)
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("暂无历史记录")
				return nil
			}
			for _, r := range runs {
				line := fmt.Sprintf("#%d  %s  %s  %s", r.ID, r.Symbol, r.Status, r.CreatedAt)
				if r.Error != "" {
					line += "  " + r.Error
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	return cmd
}

func showRunOutputs(ctx context.Context, store *storage.Store, runID int64) error {
	outputs, err := store.RunOutputs(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	if len(outputs) == 0 {
		fmt.Printf("记录 #%d 不存在或没有产出\n", runID)
		return nil
	}
	for role, content := range outputs {
		fmt.Printf("━━━ %s ━━━\n%s\n\n", role, content)
	}
	return nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("QuantAlpha v1.0.0")
			fmt.Println("AI-Powered A-Share Research Panel")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// buildOrchestrator wires the quote provider, model caller and recorder together.
func buildOrchestrator(cfg *config.Config) (*workflow.Orchestrator, *storage.Store, error) {
	provider, err := dataflows.NewQuoteProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	executor := workflow.NewStageExecutor(agents.NewEinoCaller(cfg))
	orch := workflow.NewOrchestrator(cfg, provider, executor)

	if cfg.EnrichHeadlines {
		orch.WithHeadliner(dataflows.NewHeadlineScraper(cfg))
	}

	var store *storage.Store
	if cfg.DBPath != "" {
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			log.Printf("[CLI] run store unavailable: %v", err)
		} else {
			orch.WithRecorder(store)
		}
	}

	return orch, store, nil
}

// runAnalyzeCommand executes one full analysis workflow
func runAnalyzeCommand(cfg *config.Config, symbol string) error {
	ctx := context.Background()

	orch, store, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	fmt.Printf("🚀 开始分析 %s\n\n", symbol)

	runErr := orch.Run(ctx, symbol)
	fmt.Println(display.Render(orch.Snapshot()))
	if runErr != nil {
		return fmt.Errorf("analysis failed: %w", runErr)
	}

	fmt.Println("✅ 分析完成")
	return nil
}

// runInteractiveMode loops prompting for symbols until the user stops.
func runInteractiveMode(cfg *config.Config) error {
	orch, store, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	fmt.Println("QuantAlpha 交互模式 (Ctrl+C 退出)")
	for {
		symbol, err := PromptForSymbol()
		if err != nil {
			return err
		}

		if err := orch.Run(context.Background(), symbol); err != nil {
			fmt.Printf("❌ %v\n", err)
		}
		fmt.Println(display.Render(orch.Snapshot()))

		if !PromptContinue() {
			return nil
		}
		orch.Reset()
	}
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 QuantAlpha Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Println()
	fmt.Printf("Quote Provider:       %s\n", cfg.QuoteProvider)
	fmt.Printf("Volatility Factor:    %.2f\n", cfg.VolatilityFactor)
	fmt.Printf("Plausibility K:       %.2f\n", cfg.PlausibilityMultiplier)
	fmt.Printf("Enrich Headlines:     %t\n", cfg.EnrichHeadlines)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Run Store:            %s\n", cfg.DBPath)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println("🔌 API Configuration:")
	fmt.Println("─────────────────────")
	printKeyStatus("Juhe API", cfg.JuheAPIKey != "")
	printKeyStatus("DeepSeek API", cfg.DeepSeekAPIKey != "")
	printKeyStatus("Gemini API", cfg.GeminiAPIKey != "")
	printKeyStatus("Longport API", cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "")
}

func printKeyStatus(name string, configured bool) {
	if configured {
		fmt.Printf("%-20s ✅ Configured\n", name+":")
	} else {
		fmt.Printf("%-20s ❌ Not configured\n", name+":")
	}
}

// validateConfig validates the configuration and dependencies
func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating QuantAlpha Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking API keys... ")
	var warnings []string

	if cfg.DeepSeekAPIKey == "" {
		warnings = append(warnings, "DeepSeek API key not configured")
	}
	if cfg.GeminiAPIKey == "" {
		warnings = append(warnings, "Gemini API key not configured")
	}
	switch cfg.QuoteProvider {
	case "juhe":
		if cfg.JuheAPIKey == "" {
			warnings = append(warnings, "Juhe API key not configured")
		}
	case "longport":
		if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
			warnings = append(warnings, "Longport credentials not configured")
		}
	}

	if len(warnings) == 0 {
		fmt.Println("✅")
	} else {
		fmt.Println("⚠️")
		for _, w := range warnings {
			fmt.Printf("   - %s\n", w)
		}
	}

	fmt.Print("🤖 Checking agent panel... ")
	if _, _, err := buildOrchestrator(cfg); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Println()
	fmt.Println("Configuration validation completed")
	return nil
}
