package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/aicoconsole/internal/config"
	"github.com/aicoconsole/internal/database"
	"github.com/aicoconsole/internal/store"
	"github.com/aicoconsole/pkg/models"
)

// SeedCommand returns the CLI command for loading development fixtures
func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:   "seed",
		Usage:  "Load development fixtures into the database",
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDB(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin, err := store.NewSystemUserStore(db).Create(ctx, "admin", string(adminHash), "admin@example.com")
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	staffHash, err := bcrypt.GenerateFromPassword([]byte("test123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	email := "test@example.com"
	chatworkID := "test123"
	staff, err := store.NewUserStore(db).Create(ctx, store.UserParams{
		Username:     "test",
		PasswordHash: string(staffHash),
		FirstName:    "Test",
		LastName:     "User",
		Email:        &email,
		ChatworkID:   &chatworkID,
	})
	if err != nil {
		return fmt.Errorf("failed to create staff user: %w", err)
	}

	greeting := "こんにちは！"
	terminal, err := store.NewTerminalStore(db).Create(ctx, "aico001", "テスト端末1", &greeting)
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}

	template, err := store.NewTemplateStore(db).Create(ctx,
		"問い合わせ通知",
		"[info][title]新規問い合わせ[/title]端末「{terminal}」で以下の問い合わせがありました。\n\n＜前回の会話＞\n{prevmessage}\n\n＜今回の会話＞\n{message}\n\n日時：{datetime}[/info]",
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	description := "問い合わせキーワードを検知してChatworkに通知"
	rule, err := store.NewActionStore(db).Create(ctx, store.ActionRuleParams{
		Name:        "問い合わせ対応",
		Description: &description,
		TerminalID:  terminal.ID,
		Keywords:    []string{"問い合わせ", "相談", "連絡"},
		Condition:   models.ConditionOr,
		Type:        models.ActionTypeChatwork,
		TemplateID:  &template.ID,
		UserID:      &staff.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to create action rule: %w", err)
	}

	fmt.Println("Seeded development fixtures:")
	fmt.Printf("  operator:  %s (%s)\n", admin.Username, admin.ID)
	fmt.Printf("  staff:     %s (%s)\n", staff.Username, staff.ID)
	fmt.Printf("  terminal:  %s (%s)\n", terminal.AicoID, terminal.ID)
	fmt.Printf("  template:  %s (%s)\n", template.Name, template.ID)
	fmt.Printf("  rule:      %s (%s)\n", rule.Name, rule.ID)
	return nil
}
