package messages

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expenses-bot/internal/clients/chart"
	"max.ks1230/expenses-bot/internal/entity/expense"
	"max.ks1230/expenses-bot/internal/logger"
	"max.ks1230/expenses-bot/internal/model/export"
	"max.ks1230/expenses-bot/internal/model/period"
	"max.ks1230/expenses-bot/internal/model/reports"
	"max.ks1230/expenses-bot/internal/model/storage"
)

const (
	helloMessage = "Hello! I am ExpensesRoute bot 🤖\nSend /help to see what I can do"
	helpMessage  = `Here is what I can do:

/expense <category> <amount> [description] - log an expense
/list - your latest expenses with ids
/del <id> - remove an expense by id
/edit <id> <field> <value> - edit amount, category or description
/reset - delete ALL your expenses (asks to confirm)

/today /week /month /year - period summaries
/goal [amount] - show or set your monthly goal
/salary [amount] - show or set your salary
/chart <period> - pie chart by category (today, week, month, year)
/report <period> - summary prepared in the background
/export - download your expenses as CSV`

	dontUnderstandMessage = "I don't understand you :("
	loveToTalkMessage     = "I would love to talk about it more!"
	noExpensesMessage     = "You have no expenses yet"
	nothingToExportMsg    = "You have no expenses to export yet"
	nothingToResetMessage = "You had no expenses to delete"

	expenseUsageMessage = "Usage: /expense <category> <amount> [description]\nExample: /expense lunch 15.90 burger"
	deleteUsageMessage  = "Usage: /del <id>\nSend /list to see the ids"
	editUsageMessage    = "Usage: /edit <id> <field> <value>\nFields: amount, category, description"
	chartUsageMessage   = "Usage: /chart <period>\nPeriods: today, week, month, year"
	reportUsageMessage  = "Usage: /report <period>\nPeriods: today, week, month, year"

	incorrectAmountMessage = "The amount is incorrect. Use a positive number like 15.90"
	incorrectIDMessage     = "The id is incorrect. Should be a number"

	resetConfirmMessage = "⚠ This will delete ALL your expenses.\nIf you are sure, send /reset_confirm"
	goalHintMessage     = "You have no monthly goal yet.\nUse: /goal <amount>\nExample: /goal 500"
	salaryHintMessage   = "You have no salary set yet.\nUse: /salary <amount>"
	reportQueuedMessage = "Got it! Your report will arrive shortly"

	notFoundMessage = "I can't find your expense with id %d. Send /list to check"
	nothingForMsg   = "No expenses recorded for %s"
	overGoalMessage = "⚠ You are over your monthly goal of %s.\nSpent this month: %s"

	cannotGetExpensesMessage  = "Can't get your expenses atm. Try later"
	cannotSaveExpenseMessage  = "Can't save your expense atm. Try later"
	cannotChangeExpensesMsg   = "Can't change your expenses atm. Try later"
	cannotGetGoalMessage      = "Can't get your goal atm. Try later"
	cannotSaveGoalMessage     = "Can't save your goal atm. Try later"
	cannotBuildChartMessage   = "Can't build your chart atm. Try later"
	cannotExportMessage       = "Can't export your expenses atm. Try later"
	cannotOrderReportMessage  = "Can't order your report atm. Try later"
)

const (
	startCommand        = "/start"
	helpCommand         = "/help"
	expenseCommand      = "/expense"
	listCommand         = "/list"
	deleteCommand       = "/del"
	editCommand         = "/edit"
	resetCommand        = "/reset"
	resetConfirmCommand = "/reset_confirm"
	todayCommand        = "/today"
	weekCommand         = "/week"
	monthCommand        = "/month"
	yearCommand         = "/year"
	goalCommand         = "/goal"
	salaryCommand       = "/salary"
	chartCommand        = "/chart"
	exportCommand       = "/export"
	reportCommand       = "/report"
)

type userStorage interface {
	Create(ctx context.Context, rec expense.Record) (expense.Record, error)
	ListByUser(ctx context.Context, userID int64) ([]expense.Record, error)
	Update(ctx context.Context, userID, id int64, upd expense.Update) (*expense.Record, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	ResetUser(ctx context.Context, userID int64) (int, error)
	SetMonthlyGoal(ctx context.Context, userID int64, amount expense.Amount) error
	GetMonthlyGoal(ctx context.Context, userID int64) (expense.Amount, bool, error)
	SetSalary(ctx context.Context, userID int64, amount expense.Amount) error
	GetSalary(ctx context.Context, userID int64) (expense.Amount, bool, error)
}

type chartRenderer interface {
	URL(spec chart.Spec) (string, error)
}

// ReportRequester and SummaryCache are optional collaborators; main wires
// them only when kafka/memcached are configured, so they are exported.
type ReportRequester interface {
	RequestReport(ctx context.Context, userID int64, periodTag string) error
}

type SummaryCache interface {
	GetSummary(userID int64, periodTag string) (string, error)
	CacheSummary(userID int64, periodTag string, text string) error
	InvalidateSummaries(userID int64, periodTags []string) error
}

type config interface {
	ListLimit() int
	Timezone() string
}

type handler func(ctx context.Context, arg string, userID int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	storage     userStorage
	sender      messageSender
	charts      chartRenderer
	reporter    ReportRequester
	cache       SummaryCache
	generator   *reports.Generator
	listLimit   int
	now         func() time.Time
}

func newHandler(userStorage userStorage, sender messageSender, charts chartRenderer,
	reporter ReportRequester, cache SummaryCache, config config) *HandlerService {
	loc := location(config.Timezone())
	nowFn := func() time.Time { return time.Now().In(loc) }

	res := &HandlerService{
		handlersMap: nil,
		storage:     userStorage,
		sender:      sender,
		charts:      charts,
		reporter:    reporter,
		cache:       cache,
		generator:   reports.NewGeneratorAt(userStorage, nowFn),
		listLimit:   config.ListLimit(),
		now:         nowFn,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, userID)
	}
	return dontUnderstandMessage, nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[helpCommand] = s.handleHelp
	m[expenseCommand] = s.handleExpense
	m[listCommand] = s.handleList
	m[deleteCommand] = s.handleDelete
	m[editCommand] = s.handleEdit
	m[resetCommand] = s.handleReset
	m[resetConfirmCommand] = s.handleResetConfirm
	m[todayCommand] = s.periodHandler(period.Today)
	m[weekCommand] = s.periodHandler(period.Week)
	m[monthCommand] = s.periodHandler(period.Month)
	m[yearCommand] = s.periodHandler(period.Year)
	m[goalCommand] = s.handleGoal
	m[salaryCommand] = s.handleSalary
	m[chartCommand] = s.handleChart
	m[exportCommand] = s.handleExport
	m[reportCommand] = s.handleReport

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (string, error) {
	return helloMessage, nil
}

func (s *HandlerService) handleHelp(_ context.Context, _ string, _ int64) (string, error) {
	return helpMessage, nil
}

func (s *HandlerService) handleNoCommand(_ context.Context, _ string, _ int64) (string, error) {
	return loveToTalkMessage, nil
}

func (s *HandlerService) handleExpense(ctx context.Context, arg string, userID int64) (string, error) {
	args := strings.SplitN(strings.TrimSpace(arg), " ", 3)
	if len(args) < 2 || args[0] == "" {
		return expenseUsageMessage, nil
	}
	amount, err := expense.ParseAmount(args[1])
	if err != nil {
		return incorrectAmountMessage, nil
	}
	description := ""
	if len(args) > 2 {
		description = strings.TrimSpace(args[2])
	}

	rec := expense.Record{
		UserID:      userID,
		Category:    args[0],
		Amount:      amount,
		Description: description,
		Created:     s.now(),
	}
	rec, err = s.storage.Create(ctx, rec)
	if err != nil {
		return cannotSaveExpenseMessage, errors.Wrap(err, "handle expense")
	}
	s.invalidateSummaries(userID)

	resp := fmt.Sprintf("Saved expense [%d]: %s on %s", rec.ID, rec.Amount, rec.Category)
	if rec.Description != "" {
		resp += fmt.Sprintf(" (%s)", rec.Description)
	}
	if warn := s.goalWarning(ctx, userID); warn != "" {
		resp += "\n\n" + warn
	}
	return resp, nil
}

// goalWarning re-triggers on every expense of an over-budget month; there
// is deliberately no already-notified flag.
func (s *HandlerService) goalWarning(ctx context.Context, userID int64) string {
	limit, ok, err := s.storage.GetMonthlyGoal(ctx, userID)
	if err != nil {
		logger.Error("cannot get monthly goal", zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}

	summary, err := s.generator.Generate(ctx, userID, period.Month)
	if err != nil {
		logger.Error("cannot total the month", zap.Error(err))
		return ""
	}
	if !reports.GoalBreached(summary.Total, limit) {
		return ""
	}
	return fmt.Sprintf(overGoalMessage, limit, summary.Total)
}

func (s *HandlerService) handleList(ctx context.Context, _ string, userID int64) (string, error) {
	records, err := s.listFailSoft(ctx, userID)
	if err != nil {
		return cannotGetExpensesMessage, errors.Wrap(err, "handle list")
	}
	if len(records) == 0 {
		return noExpensesMessage, nil
	}

	sorted := make([]expense.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Created.After(sorted[j].Created)
	})
	if len(sorted) > s.listLimit {
		sorted = sorted[:s.listLimit]
	}

	lines := make([]string, 0, len(sorted)+3)
	lines = append(lines, "🧾 Your latest expenses:", "")
	for _, rec := range sorted {
		lines = append(lines, formatRecordLine(rec))
	}
	lines = append(lines, "", "Use /del <id> to remove an expense or /edit <id> <field> <value>.")
	return strings.Join(lines, "\n"), nil
}

func (s *HandlerService) handleDelete(ctx context.Context, arg string, userID int64) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return deleteUsageMessage, nil
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return incorrectIDMessage, nil
	}

	removed, err := s.storage.Delete(ctx, userID, id)
	if err != nil {
		return cannotChangeExpensesMsg, errors.Wrap(err, "handle delete")
	}
	if !removed {
		return fmt.Sprintf(notFoundMessage, id), nil
	}
	s.invalidateSummaries(userID)
	return fmt.Sprintf("Expense [%d] removed", id), nil
}

func (s *HandlerService) handleEdit(ctx context.Context, arg string, userID int64) (string, error) {
	args := strings.SplitN(strings.TrimSpace(arg), " ", 3)
	if len(args) < 3 {
		return editUsageMessage, nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return incorrectIDMessage, nil
	}

	value := args[2]
	var upd expense.Update
	switch strings.ToLower(args[1]) {
	case "amount":
		amount, err := expense.ParseAmount(value)
		if err != nil {
			return incorrectAmountMessage, nil
		}
		upd.Amount = &amount
	case "category":
		upd.Category = &value
	case "description":
		upd.Description = &value
	default:
		return editUsageMessage, nil
	}

	rec, err := s.storage.Update(ctx, userID, id, upd)
	if err != nil {
		return cannotChangeExpensesMsg, errors.Wrap(err, "handle edit")
	}
	if rec == nil {
		return fmt.Sprintf(notFoundMessage, id), nil
	}
	s.invalidateSummaries(userID)

	return fmt.Sprintf("Expense [%d] updated:\nCategory: %s\nAmount: %s\nDescription: %s",
		rec.ID, rec.Category, rec.Amount, orNone(rec.Description)), nil
}

func (s *HandlerService) handleReset(_ context.Context, _ string, _ int64) (string, error) {
	return resetConfirmMessage, nil
}

func (s *HandlerService) handleResetConfirm(ctx context.Context, _ string, userID int64) (string, error) {
	removed, err := s.storage.ResetUser(ctx, userID)
	if err != nil {
		return cannotChangeExpensesMsg, errors.Wrap(err, "handle reset")
	}
	if removed == 0 {
		return nothingToResetMessage, nil
	}
	s.invalidateSummaries(userID)
	return fmt.Sprintf("Done. Removed %d of your expenses. Starting fresh.", removed), nil
}

func (s *HandlerService) periodHandler(tag string) handler {
	return func(ctx context.Context, _ string, userID int64) (string, error) {
		return s.summarize(ctx, userID, tag)
	}
}

func (s *HandlerService) summarize(ctx context.Context, userID int64, tag string) (string, error) {
	if s.cache != nil {
		if text, err := s.cache.GetSummary(userID, tag); err == nil && text != "" {
			return text, nil
		}
	}

	summary, err := s.generator.Generate(ctx, userID, tag)
	if err != nil {
		var corrupt *storage.CorruptDataError
		if errors.As(err, &corrupt) {
			logger.Error("expense collection is corrupt", zap.Error(err))
			return fmt.Sprintf(nothingForMsg, periodHeading(tag)), nil
		}
		return cannotGetExpensesMessage, errors.Wrap(err, "summarize")
	}
	if len(summary.Records) == 0 {
		return fmt.Sprintf(nothingForMsg, periodHeading(tag)), nil
	}

	text := fmt.Sprintf("📆 Summary for %s:\n", periodHeading(tag)) + summary.Format()
	if s.cache != nil {
		if err = s.cache.CacheSummary(userID, tag, text); err != nil {
			logger.Error("cannot cache summary", zap.Error(err))
		}
	}
	return text, nil
}

func (s *HandlerService) handleGoal(ctx context.Context, arg string, userID int64) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		limit, ok, err := s.storage.GetMonthlyGoal(ctx, userID)
		if err != nil {
			return cannotGetGoalMessage, errors.Wrap(err, "handle goal")
		}
		if !ok {
			return goalHintMessage, nil
		}
		return fmt.Sprintf("Your monthly goal is %s", limit), nil
	}

	amount, err := expense.ParseAmount(arg)
	if err != nil {
		return incorrectAmountMessage, nil
	}
	if err = s.storage.SetMonthlyGoal(ctx, userID, amount); err != nil {
		return cannotSaveGoalMessage, errors.Wrap(err, "handle goal")
	}
	return fmt.Sprintf("Monthly goal set: %s", amount), nil
}

func (s *HandlerService) handleSalary(ctx context.Context, arg string, userID int64) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		salary, ok, err := s.storage.GetSalary(ctx, userID)
		if err != nil {
			return cannotGetGoalMessage, errors.Wrap(err, "handle salary")
		}
		if !ok {
			return salaryHintMessage, nil
		}
		return fmt.Sprintf("Your salary is %s", salary), nil
	}

	amount, err := expense.ParseAmount(arg)
	if err != nil {
		return incorrectAmountMessage, nil
	}
	if err = s.storage.SetSalary(ctx, userID, amount); err != nil {
		return cannotSaveGoalMessage, errors.Wrap(err, "handle salary")
	}
	return fmt.Sprintf("Salary set: %s", amount), nil
}

func (s *HandlerService) handleChart(ctx context.Context, arg string, userID int64) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(arg))
	if !period.Known(tag) {
		return chartUsageMessage, nil
	}

	summary, err := s.generator.Generate(ctx, userID, tag)
	if err != nil {
		return cannotGetExpensesMessage, errors.Wrap(err, "handle chart")
	}
	if len(summary.Records) == 0 {
		return fmt.Sprintf(nothingForMsg, periodHeading(tag)), nil
	}

	labels := make([]string, 0, len(summary.Categories))
	values := make([]float64, 0, len(summary.Categories))
	for _, cat := range summary.Categories {
		labels = append(labels, cat.Category)
		values = append(values, cat.Amount.Float64())
	}

	url, err := s.charts.URL(chart.PieSpec(labels, values, "Expenses by category - "+periodHeading(tag)))
	if err != nil {
		return cannotBuildChartMessage, errors.Wrap(err, "handle chart")
	}
	err = s.sender.SendPhoto(url, fmt.Sprintf("Pie chart (%s).", tag), userID)
	if err != nil {
		return "", errors.Wrap(err, "handle chart")
	}
	return "", nil
}

func (s *HandlerService) handleExport(ctx context.Context, _ string, userID int64) (string, error) {
	records, err := s.storage.ListByUser(ctx, userID)
	if err != nil {
		return cannotGetExpensesMessage, errors.Wrap(err, "handle export")
	}
	if len(records) == 0 {
		return nothingToExportMsg, nil
	}

	data, err := export.CSV(records)
	if err != nil {
		return cannotExportMessage, errors.Wrap(err, "handle export")
	}
	err = s.sender.SendDocument(export.FileName, data, "Here are your expenses in CSV.", userID)
	if err != nil {
		return "", errors.Wrap(err, "handle export")
	}
	return "", nil
}

func (s *HandlerService) handleReport(ctx context.Context, arg string, userID int64) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(arg))
	if !period.Known(tag) {
		return reportUsageMessage, nil
	}
	if s.reporter == nil {
		return s.summarize(ctx, userID, tag)
	}

	if err := s.reporter.RequestReport(ctx, userID, tag); err != nil {
		return cannotOrderReportMessage, errors.Wrap(err, "handle report")
	}
	return reportQueuedMessage, nil
}

// listFailSoft substitutes an empty collection when the file is corrupt so
// the chat stays usable; the unparseable file itself is left in place.
func (s *HandlerService) listFailSoft(ctx context.Context, userID int64) ([]expense.Record, error) {
	records, err := s.storage.ListByUser(ctx, userID)
	var corrupt *storage.CorruptDataError
	if errors.As(err, &corrupt) {
		logger.Error("expense collection is corrupt", zap.Error(err))
		return []expense.Record{}, nil
	}
	return records, err
}

func (s *HandlerService) invalidateSummaries(userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummaries(userID, period.Tags); err != nil {
		logger.Error("cannot invalidate summaries", zap.Error(err))
	}
}
