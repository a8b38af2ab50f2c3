package main

import (
	"log"
	"os"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/Alias1177/Decomposer/internal/database"
	"github.com/Alias1177/Decomposer/internal/report"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on actual environment variables")
	}
}

func main() {
	// Initialize database
	db, err := database.New(database.ParamsFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Telegram bot
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set in environment")
	}

	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil {
		log.Fatalf("TELEGRAM_CHAT_ID not set or invalid: %v", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	// Collect the latest run for every stored symbol
	symbols, err := db.ListSymbols()
	if err != nil {
		log.Fatalf("Failed to list symbols: %v", err)
	}
	if len(symbols) == 0 {
		log.Fatal("No decomposition runs stored yet")
	}

	log.Printf("Found %d symbols with stored runs", len(symbols))

	successCount := 0
	errorCount := 0

	for i, symbol := range symbols {
		run, err := db.GetLatestRun(symbol)
		if err != nil || run == nil {
			log.Printf("Failed to load latest run for %s: %v", symbol, err)
			errorCount++
			continue
		}

		summary, err := report.Summary(run)
		if err != nil {
			log.Printf("Failed to summarize run %s: %v", run.ID, err)
			errorCount++
			continue
		}

		msg := tgbotapi.NewMessage(chatID, summary)
		if _, err := bot.Send(msg); err != nil {
			log.Printf("Failed to send summary for %s: %v", symbol, err)
			errorCount++
		} else {
			log.Printf("Summary sent for %s [%d/%d]", symbol, i+1, len(symbols))
			successCount++
		}

		// Stay under Telegram's per-second message limits
		if i < len(symbols)-1 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	log.Printf("=== BROADCAST COMPLETED ===")
	log.Printf("Sent: %d, failed: %d", successCount, errorCount)
}
