// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"expense-tracker/internal/aiclient"
	"expense-tracker/internal/analytics"
	"expense-tracker/internal/config"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/insight"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage/postgres"
	"expense-tracker/internal/storage/sqlite"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const helpText = "💸 *Expense Tracker*\n\n" +
	"Commands:\n" +
	"`/add Coffee 4.50 food` — record an expense (optional date last: `2025-08-20`)\n" +
	"`/total` — total spent overall\n" +
	"`/month` — summary for the recent month\n" +
	"`/ask how can I cut my food spending?` — ask the AI about your expenses"

func main() {
	_ = godotenv.Load()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	cfg := config.MustLoad()

	var expenseService *service.ExpenseService
	switch cfg.DBDriver {
	case "sqlite":
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal("Failed to open sqlite store:", err)
		}
		defer store.Close()
		expenseService = service.NewExpenseService(store)
	default:
		pool, err := pgxpool.New(context.Background(), cfg.DBConn)
		if err != nil {
			log.Fatal("Failed to connect to DB:", err)
		}
		defer pool.Close()
		expenseService = service.NewExpenseService(postgres.NewStorage(pool))
	}

	aiClient := aiclient.New(aiclient.Config{
		APIKey:         cfg.AIAPIKey,
		BaseURL:        cfg.AIAPIURL,
		ConnectTimeout: time.Duration(cfg.AIConnectTimeoutSec) * time.Second,
		ReadTimeout:    time.Duration(cfg.AIReadTimeoutSec) * time.Second,
	})

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Panic(err)
	}

	log.Printf("Bot started: @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		text := strings.TrimSpace(update.Message.Text)

		var msgText string
		var errHandle error

		switch {
		case text == "/start" || text == "/help":
			msgText = helpText

		case strings.HasPrefix(text, "/add "):
			msgText, errHandle = handleAdd(expenseService, strings.TrimSpace(text[5:]))

		case text == "/total":
			msgText, errHandle = handleTotal(expenseService)

		case text == "/month":
			msgText, errHandle = handleMonth(expenseService)

		case strings.HasPrefix(text, "/ask "):
			msgText, errHandle = handleAsk(expenseService, aiClient, strings.TrimSpace(text[5:]))

		default:
			msgText = "Unknown command. Try /help"
		}

		if errHandle != nil {
			msgText = "❌ Error: " + errHandle.Error()
		}

		msg := tgbotapi.NewMessage(chatID, msgText)
		msg.ParseMode = "Markdown"
		_, _ = bot.Send(msg)
	}
}

// handleAdd parses "description amount category [date]" and records it.
func handleAdd(expenses *service.ExpenseService, input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) < 3 {
		return "", fmt.Errorf("use: /add Description 12.50 category [2025-08-20]")
	}

	date := ""
	if _, ok := domain.ParseDate(fields[len(fields)-1]); ok {
		date = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	if len(fields) < 3 {
		return "", fmt.Errorf("use: /add Description 12.50 category [2025-08-20]")
	}

	category := fields[len(fields)-1]
	amountStr := fields[len(fields)-2]
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %q", amountStr)
	}
	description := strings.Join(fields[:len(fields)-2], " ")

	e := domain.Expense{
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	if err := expenses.Create(context.Background(), &e); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Saved #%d: %s — $%.2f (%s) [%s]", e.ID, e.Description, e.Amount, e.Category, e.Date), nil
}

func handleTotal(expenses *service.ExpenseService) (string, error) {
	total, err := expenses.TotalAll(context.Background())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("💰 *Total spent*: $%.2f", total), nil
}

func handleMonth(expenses *service.ExpenseService) (string, error) {
	all, err := expenses.All(context.Background())
	if err != nil {
		return "", err
	}
	summary := analytics.Summarize(all, time.Now())
	if summary.TotalCount == 0 {
		return "📭 No expenses recorded yet", nil
	}

	var lines []string
	lines = append(lines, "📊 *Recent month*")
	lines = append(lines, fmt.Sprintf("Spent: $%.2f", summary.RecentMonthTotal))
	lines = append(lines, fmt.Sprintf("All time: $%.2f over %d transactions", summary.TotalAmount, summary.TotalCount))
	return strings.Join(lines, "\n"), nil
}

// handleAsk runs the full insight pipeline: classify, filter, build the
// prompt and call the completion API.
func handleAsk(expenses *service.ExpenseService, ai *aiclient.Client, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("ask a question: /ask where does my money go?")
	}

	all, err := expenses.All(context.Background())
	if err != nil {
		return "", err
	}

	queryType := insight.Classify(question)
	relevant := insight.Relevant(question, all, queryType, time.Now())
	prompt := insight.BuildPrompt(relevant, question, queryType)

	answer, err := ai.Complete(context.Background(), prompt)
	if err != nil {
		return "", err
	}
	return answer, nil
}
