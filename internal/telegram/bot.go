package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maternal-meal-planner/internal/catalog"
	"maternal-meal-planner/internal/config"
	"maternal-meal-planner/internal/planner"
	"maternal-meal-planner/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const recommendCount = 10

// Bot wraps the Telegram API around the meal planner.
type Bot struct {
	api      *tgbotapi.BotAPI
	planner  *planner.Planner
	catalog  *catalog.Repository
	planRepo *planner.PlanRepository
	narrator *report.Narrator // nil when no Gemini key is configured
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	p *planner.Planner,
	catalogRepo *catalog.Repository,
	planRepo *planner.PlanRepository,
	narrator *report.Narrator,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      bot,
		planner:  p,
		catalog:  catalogRepo,
		planRepo: planRepo,
		narrator: narrator,
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}

	// Commands may arrive as "/plan@BotName" in group chats.
	command := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch command {
	case "/start", "/help":
		b.reply(msg.Chat.ID, helpText)
	case "/plan":
		b.handlePlanCommand(msg, args)
	case "/recommend":
		b.handleRecommendCommand(msg, args)
	case "/foods":
		b.handleFoodsCommand(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send /help for usage.")
	}
}

const helpText = `🤰 *Pregnancy Meal Planner*

Commands:
/plan <days> <trimester> [diet] [region] [conditions...]
/recommend <trimester> [diet] [region] [conditions...]
/foods

Examples:
/plan 7 2 vegetarian
/plan 7 3 vegan "South India" diabetes
/recommend 1 vegetarian`

func (b *Bot) handlePlanCommand(msg *tgbotapi.Message, args []string) {
	query, err := ParsePlanArgs(args)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %v\n\nUsage: /plan <days> <trimester> [diet] [region] [conditions...]", err))
		return
	}

	statusText := "🧑‍🍳 *Building your plan...*"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	plan, err := b.planner.Generate(ctx, query)
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		b.editMarkdown(msg.Chat.ID, sentMsg.MessageID, formatError("Error generating plan", err))
		return
	}

	userID := fmt.Sprintf("%d", msg.From.ID)
	if err := b.planRepo.Save(ctx, userID, plan); err != nil {
		log.Printf("Warning: failed to save meal plan for user %s: %v", userID, err)
	}

	b.editMarkdown(msg.Chat.ID, sentMsg.MessageID, report.FormatPlanMarkdown(plan))

	if b.narrator != nil {
		summary, err := b.narrator.Narrate(ctx, plan)
		if err != nil {
			log.Printf("Warning: narration failed: %v", err)
			return
		}
		b.reply(msg.Chat.ID, summary)
	}
}

func (b *Bot) handleRecommendCommand(msg *tgbotapi.Message, args []string) {
	query, err := ParseRecommendArgs(args)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ %v\n\nUsage: /recommend <trimester> [diet] [region] [conditions...]", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := b.planner.Recommend(ctx, query, recommendCount)
	if err != nil {
		log.Printf("Error generating recommendations: %v", err)
		b.reply(msg.Chat.ID, formatError("Error generating recommendations", err))
		return
	}

	b.reply(msg.Chat.ID, report.FormatRecommendationsMarkdown(entries))
}

func (b *Bot) handleFoodsCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := b.catalog.ListAll(ctx)
	if err != nil {
		log.Printf("Error listing foods: %v", err)
		b.reply(msg.Chat.ID, formatError("Error listing foods", err))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🥗 *Food Catalog* (%d items)\n\n", len(items)))
	for _, item := range items {
		name := item.NameEnglish
		if item.NameHindi != "" {
			name = fmt.Sprintf("%s (%s)", item.NameEnglish, item.NameHindi)
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", name, item.Category))
	}
	b.reply(msg.Chat.ID, sb.String())
}

// ParsePlanArgs parses "/plan" arguments: <days> <trimester> [diet] [region]
// [conditions...]. Region values containing spaces may be double-quoted.
func ParsePlanArgs(args []string) (planner.PlanQuery, error) {
	if len(args) < 2 {
		return planner.PlanQuery{}, fmt.Errorf("need at least <days> and <trimester>")
	}

	days, err := strconv.Atoi(args[0])
	if err != nil {
		return planner.PlanQuery{}, fmt.Errorf("days must be a number, got %q", args[0])
	}

	query, err := parseCommonArgs(args[1:])
	if err != nil {
		return planner.PlanQuery{}, err
	}
	query.Days = days
	return query, nil
}

// ParseRecommendArgs parses "/recommend" arguments: <trimester> [diet]
// [region] [conditions...].
func ParseRecommendArgs(args []string) (planner.PlanQuery, error) {
	if len(args) < 1 {
		return planner.PlanQuery{}, fmt.Errorf("need at least <trimester>")
	}
	return parseCommonArgs(args)
}

func parseCommonArgs(args []string) (planner.PlanQuery, error) {
	var query planner.PlanQuery

	trimester, err := strconv.Atoi(args[0])
	if err != nil {
		return planner.PlanQuery{}, fmt.Errorf("trimester must be a number, got %q", args[0])
	}
	query.Trimester = trimester

	rest := rejoinQuoted(args[1:])
	for _, arg := range rest {
		switch strings.ToLower(arg) {
		case "vegetarian", "vegan", "non_vegetarian", "any":
			if query.Diet != "" {
				return planner.PlanQuery{}, fmt.Errorf("diet given twice")
			}
			query.Diet = catalog.DietType(strings.ToLower(arg))
		case "diabetes", "hypertension", "lactose_intolerance":
			query.HealthConditions = append(query.HealthConditions, strings.ToLower(arg))
		default:
			if query.Region != "" {
				return planner.PlanQuery{}, fmt.Errorf("unrecognized argument %q", arg)
			}
			query.Region = arg
		}
	}

	return query, nil
}

// rejoinQuoted merges tokens split inside double quotes, so
// `"South India"` parses as one region argument.
func rejoinQuoted(args []string) []string {
	var out []string
	var pending []string
	for _, arg := range args {
		if len(pending) == 0 {
			if strings.HasPrefix(arg, `"`) && !strings.HasSuffix(arg, `"`) {
				pending = append(pending, strings.TrimPrefix(arg, `"`))
				continue
			}
			out = append(out, strings.Trim(arg, `"`))
			continue
		}
		if strings.HasSuffix(arg, `"`) {
			pending = append(pending, strings.TrimSuffix(arg, `"`))
			out = append(out, strings.Join(pending, " "))
			pending = nil
			continue
		}
		pending = append(pending, arg)
	}
	// Unterminated quote: keep the tokens as-is.
	out = append(out, pending...)
	return out
}

func formatError(prefix string, err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *%s:*\n```\n%v\n```", prefix, safeErr)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}
