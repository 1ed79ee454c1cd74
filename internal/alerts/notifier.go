// Package alerts delivers value-bet and system notifications over Telegram.
package alerts

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/tennis-edge/internal/backtest"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/models"
)

// Notifier delivers alerts to an external channel.
type Notifier interface {
	SendValueBetAlert(ctx context.Context, signal *models.Signal) error
	SendSystemAlert(ctx context.Context, component, message string) error
	SendBacktestSummary(ctx context.Context, report backtest.Report) error
}

// NopNotifier discards all alerts. Used when alerting is disabled.
type NopNotifier struct{}

func (NopNotifier) SendValueBetAlert(context.Context, *models.Signal) error    { return nil }
func (NopNotifier) SendSystemAlert(context.Context, string, string) error      { return nil }
func (NopNotifier) SendBacktestSummary(context.Context, backtest.Report) error { return nil }

// TelegramNotifier sends alerts to a Telegram chat. Sends are rate limited
// to stay under Telegram's per-chat message cap.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewTelegramNotifier creates a Telegram notifier from alert configuration.
func NewTelegramNotifier(cfg config.AlertsConfig, logger *logrus.Logger) (*TelegramNotifier, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMaxAttempts
	retryClient.Logger = nil
	httpClient := retryClient.StandardClient()
	if cfg.TimeoutSeconds > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramToken, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	ratePerMinute := cfg.RatePerMinute
	if ratePerMinute <= 0 {
		ratePerMinute = 20
	}

	logger.WithField("chat_id", cfg.TelegramChatID).Info("Telegram notifier initialized")

	return &TelegramNotifier{
		bot:     bot,
		chatID:  cfg.TelegramChatID,
		limiter: rate.NewLimiter(rate.Limit(ratePerMinute/60.0), 1),
		logger:  logger,
	}, nil
}

// SendValueBetAlert notifies the chat about a newly generated value signal.
func (n *TelegramNotifier) SendValueBetAlert(ctx context.Context, signal *models.Signal) error {
	if err := n.send(ctx, FormatValueBetMessage(signal)); err != nil {
		metrics.RecordAlertSent("value_bet", "failure")
		return err
	}
	metrics.RecordAlertSent("value_bet", "success")
	n.logger.WithFields(logrus.Fields{
		"signal_id": signal.ID,
		"match_id":  signal.MatchID,
		"selection": signal.Selection,
	}).Info("Value bet alert sent")
	return nil
}

// SendSystemAlert notifies the chat about an operational event.
func (n *TelegramNotifier) SendSystemAlert(ctx context.Context, component, message string) error {
	text := fmt.Sprintf("⚠️ *System Alert*\n\n*Component:* %s\n*Message:* %s\n*Time:* %s",
		component, message, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err := n.send(ctx, text); err != nil {
		metrics.RecordAlertSent("system", "failure")
		return err
	}
	metrics.RecordAlertSent("system", "success")
	return nil
}

// SendBacktestSummary notifies the chat about a completed backtest run.
func (n *TelegramNotifier) SendBacktestSummary(ctx context.Context, report backtest.Report) error {
	if err := n.send(ctx, FormatBacktestMessage(report)); err != nil {
		metrics.RecordAlertSent("backtest", "failure")
		return err
	}
	metrics.RecordAlertSent("backtest", "success")
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// FormatValueBetMessage renders a signal as a Telegram Markdown message.
func FormatValueBetMessage(signal *models.Signal) string {
	return fmt.Sprintf(`🎾 *Value Bet Detected*

*Selection:* %s
*Opponent:* %s
*Tournament:* %s
*Match Time:* %s

*Odds:* %.2f
*Model Probability:* %.1f%%
*Implied Probability:* %.1f%%
*Expected Value:* %.1f%%
*Confidence:* %s

*Stake Recommendation:*
- Kelly fraction: %.2f%%
- Recommended stake: %.2f`,
		signal.Selection,
		signal.Opponent,
		signal.Tournament,
		signal.MatchTime.Format("2006-01-02 15:04"),
		signal.Odds,
		signal.ModelProb*100,
		signal.ImpliedProb*100,
		signal.ExpectedValue*100,
		signal.ConfidenceLevel,
		signal.KellyStake*100,
		signal.RecommendedStake,
	)
}

// FormatBacktestMessage renders a backtest report as a Telegram Markdown message.
func FormatBacktestMessage(report backtest.Report) string {
	return fmt.Sprintf(`📊 *Backtest Completed*

*Strategy:* %s
*Period:* %s to %s

*Bets:* %d (won %d, lost %d)
*Win Rate:* %.1f%%
*ROI:* %.2f%%
*Total Profit:* %.2f
*Max Drawdown:* %.2f%%
*Final Bankroll:* %.2f`,
		report.StrategyName,
		report.StartDate.Format("2006-01-02"),
		report.EndDate.Format("2006-01-02"),
		report.TotalBets,
		report.WinningBets,
		report.LosingBets,
		report.WinRate*100,
		report.ROI*100,
		report.TotalProfit,
		report.MaxDrawdown*100,
		report.FinalBankroll,
	)
}
