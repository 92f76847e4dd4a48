package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetplanner/internal/auth"
	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"

	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password accepted at signup and on change.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

func checkPassword(password string) error {
	if len(password) < MinPasswordLength {
		return core.ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return core.ErrLongPassword
	}
	return nil
}

// Planner is the entry point for every budget planner operation. Each method
// that touches a user's records takes the caller's session and an optional
// target email and resolves them through Authorize before any read or write.
type Planner struct {
	directory *Directory
	ledger    *Ledger
	goals     *GoalStore
	reports   *Reconciler
	hasher    auth.Hasher
	alerts    AlertPublisher
	now       func() time.Time
	listLimit int
	log       *log.Logger
}

// Options tunes a Planner. Zero fields take defaults.
type Options struct {
	Hasher           auth.Hasher
	Alerts           AlertPublisher
	Logger           *log.Logger
	DefaultListLimit int
	Now              func() time.Time
	NewID            func() string
}

func NewPlanner(store ports.RowStore, opts Options) *Planner {
	if opts.Hasher == nil {
		opts.Hasher = auth.NewBcryptHasher(0)
	}
	if opts.Alerts == nil {
		opts.Alerts = NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.DefaultListLimit <= 0 {
		opts.DefaultListLimit = DefaultListLimit
	}
	ledger := NewLedger(store, opts.Now, opts.NewID, opts.DefaultListLimit, opts.Logger)
	goals := NewGoalStore(store, opts.NewID, opts.Logger)
	return &Planner{
		directory: NewDirectory(store, opts.Now, opts.NewID, opts.Logger),
		ledger:    ledger,
		goals:     goals,
		reports:   NewReconciler(ledger, goals),
		hasher:    opts.Hasher,
		alerts:    opts.Alerts,
		now:       opts.Now,
		listLimit: opts.DefaultListLimit,
		log:       opts.Logger.WithComponent(log.ComponentPlanner),
	}
}

// Signup registers a new account with the user role.
func (p *Planner) Signup(ctx context.Context, email, password string) (core.User, error) {
	norm, err := core.NormalizeEmail(email)
	if err != nil {
		return core.User{}, err
	}
	if !strings.Contains(norm, "@") {
		return core.User{}, fmt.Errorf("%w %q", core.ErrInvalidEmail, norm)
	}
	if err := checkPassword(password); err != nil {
		return core.User{}, err
	}
	hash, err := p.hasher.Hash(password)
	if err != nil {
		return core.User{}, err
	}
	return p.directory.Create(ctx, norm, hash)
}

// Login checks credentials and returns the session to pass to later calls.
// Unknown emails and wrong passwords fail alike with core.ErrInvalidCredentials.
func (p *Planner) Login(ctx context.Context, email, password string) (core.Session, error) {
	u, err := p.directory.Lookup(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return core.Session{}, core.ErrInvalidCredentials
		}
		return core.Session{}, err
	}
	if !p.hasher.Verify(password, u.PasswordHash) {
		p.log.WarnContext(ctx, "Login rejected", log.FieldEmail, u.Email)
		return core.Session{}, core.ErrInvalidCredentials
	}
	s := core.Session{Email: u.Email, Role: p.roleOrLeast(ctx, u.Email)}
	p.log.InfoContext(ctx, "Login succeeded", log.FieldEmail, s.Email, log.FieldRole, s.Role)
	return s, nil
}

// Logout returns the anonymous session.
func (p *Planner) Logout() core.Session {
	return core.Session{}
}

// WhoAmI returns the account the session acts as, or the target account for
// editors.
func (p *Planner) WhoAmI(ctx context.Context, s core.Session, targetEmail string) (core.User, error) {
	u, err := p.resolveUser(ctx, s, targetEmail)
	if err != nil {
		return core.User{}, err
	}
	u.Role = p.roleOrLeast(ctx, u.Email)
	return u, nil
}

// ListUsers is restricted to editors. A nil limit applies the configured
// list default.
func (p *Planner) ListUsers(ctx context.Context, s core.Session, limit *int) ([]core.User, error) {
	if err := RequireEditor(s); err != nil {
		return nil, err
	}
	n := p.listLimit
	if limit != nil {
		n = *limit
	}
	return p.directory.List(ctx, n)
}

// SetRole is restricted to editors.
func (p *Planner) SetRole(ctx context.Context, s core.Session, targetEmail, role string) error {
	if err := RequireEditor(s); err != nil {
		return err
	}
	target, err := core.NormalizeEmail(targetEmail)
	if err != nil {
		return err
	}
	r, err := core.ParseRole(role)
	if err != nil {
		return err
	}
	if err := p.directory.SetRole(ctx, target, r); err != nil {
		return err
	}
	p.log.InfoContext(ctx, "Role set", log.FieldEmail, s.Email, log.FieldTarget, target, log.FieldRole, r)
	return nil
}

// ChangePassword replaces the session user's password after checking the
// current one.
func (p *Planner) ChangePassword(ctx context.Context, s core.Session, current, next string) error {
	u, err := p.resolveUser(ctx, s, "")
	if err != nil {
		return err
	}
	if !p.hasher.Verify(current, u.PasswordHash) {
		return core.ErrInvalidCredentials
	}
	if err := checkPassword(next); err != nil {
		return err
	}
	hash, err := p.hasher.Hash(next)
	if err != nil {
		return err
	}
	return p.directory.UpdateCredential(ctx, u.Email, hash)
}

// TransactionInput carries raw command input for AddTransaction. An empty
// Date means today.
type TransactionInput struct {
	Email    string
	Date     string
	Category string
	Amount   string
	Note     string
}

func (p *Planner) AddTransaction(ctx context.Context, s core.Session, in TransactionInput) (string, error) {
	email, err := Authorize(s, in.Email)
	if err != nil {
		return "", err
	}
	date, err := p.parseDateOrToday(in.Date)
	if err != nil {
		return "", err
	}
	category, err := core.NormalizeCategory(in.Category)
	if err != nil {
		return "", err
	}
	amount, err := core.ParseTransactionAmount(in.Amount)
	if err != nil {
		return "", err
	}
	u, err := p.directory.Lookup(ctx, email)
	if err != nil {
		return "", err
	}
	id, err := p.ledger.Add(ctx, u.ID, date, category, amount, strings.TrimSpace(in.Note))
	if err != nil {
		return "", err
	}
	if amount.IsPositive() {
		p.checkBudget(ctx, u, date.Month(), category)
	}
	return id, nil
}

// ListTransactionsInput filters ListTransactions. A nil Limit applies the
// default cap.
type ListTransactionsInput struct {
	Email string
	Date  string
	Limit *int
}

func (p *Planner) ListTransactions(ctx context.Context, s core.Session, in ListTransactionsInput) ([]core.Transaction, error) {
	u, err := p.resolveUser(ctx, s, in.Email)
	if err != nil {
		return nil, err
	}
	f := TransactionFilter{UserID: u.ID, Limit: in.Limit}
	if strings.TrimSpace(in.Date) != "" {
		if f.Date, err = core.ParseDate(in.Date); err != nil {
			return nil, err
		}
	}
	return p.ledger.List(ctx, f)
}

// GoalInput carries raw command input for SetGoal.
type GoalInput struct {
	Email    string
	Month    string
	Category string
	Amount   string
}

func (p *Planner) SetGoal(ctx context.Context, s core.Session, in GoalInput) (string, error) {
	email, err := Authorize(s, in.Email)
	if err != nil {
		return "", err
	}
	month, err := core.ParseMonth(in.Month)
	if err != nil {
		return "", err
	}
	category, err := core.NormalizeCategory(in.Category)
	if err != nil {
		return "", err
	}
	amount, err := core.ParseGoalAmount(in.Amount)
	if err != nil {
		return "", err
	}
	u, err := p.directory.Lookup(ctx, email)
	if err != nil {
		return "", err
	}
	return p.goals.SetGoal(ctx, u.ID, month, category, amount)
}

// ListGoals lists the resolved user's goals, for one month when month is set.
func (p *Planner) ListGoals(ctx context.Context, s core.Session, email, month string) ([]core.BudgetGoal, error) {
	u, err := p.resolveUser(ctx, s, email)
	if err != nil {
		return nil, err
	}
	m, err := optionalMonth(month)
	if err != nil {
		return nil, err
	}
	return p.goals.List(ctx, GoalFilter{UserID: u.ID, Month: m})
}

func (p *Planner) MonthlyTotal(ctx context.Context, s core.Session, email, month string) (core.Money, error) {
	u, err := p.resolveUser(ctx, s, email)
	if err != nil {
		return core.Money{}, err
	}
	m, err := core.ParseMonth(month)
	if err != nil {
		return core.Money{}, err
	}
	return p.reports.MonthlyTotal(ctx, m, u.ID)
}

// SummarizeByCategory accepts an empty period, a YYYY-MM month or a
// YYYY-MM-DD day.
func (p *Planner) SummarizeByCategory(ctx context.Context, s core.Session, email, period string) ([]core.CategorySpend, error) {
	u, err := p.resolveUser(ctx, s, email)
	if err != nil {
		return nil, err
	}
	pr, err := core.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	return p.reports.SummarizeByCategory(ctx, u.ID, pr)
}

func (p *Planner) GoalsVsSpend(ctx context.Context, s core.Session, email, month string) ([]core.GoalProgress, error) {
	u, err := p.resolveUser(ctx, s, email)
	if err != nil {
		return nil, err
	}
	m, err := optionalMonth(month)
	if err != nil {
		return nil, err
	}
	return p.reports.GoalsVsSpend(ctx, u.ID, m)
}

// resolveUser authorizes first and only then reads the directory.
func (p *Planner) resolveUser(ctx context.Context, s core.Session, targetEmail string) (core.User, error) {
	email, err := Authorize(s, targetEmail)
	if err != nil {
		return core.User{}, err
	}
	return p.directory.Lookup(ctx, email)
}

// roleOrLeast falls back to RoleUser when the roles table cannot be read.
func (p *Planner) roleOrLeast(ctx context.Context, email string) core.Role {
	role, err := p.directory.Role(ctx, email)
	if err != nil {
		p.log.WarnContext(ctx, "Role lookup failed, using least privilege", log.FieldEmail, email, log.FieldError, err)
		return core.RoleUser
	}
	return role
}

// checkBudget publishes an alert when spend in the category is close to or
// over the month's goal. Failures are logged and never surface.
func (p *Planner) checkBudget(ctx context.Context, u core.User, month core.Month, category string) {
	rows, err := p.reports.GoalsVsSpend(ctx, u.ID, month)
	if err != nil {
		p.log.WarnContext(ctx, "Budget check failed", log.FieldUserID, u.ID, log.FieldError, err)
		return
	}
	for _, row := range rows {
		if row.Category != category {
			continue
		}
		level := AlertLevelFor(row.Goal, row.Spent)
		if level == core.AlertNone {
			return
		}
		alert := core.BudgetAlert{
			UserID:    u.ID,
			Email:     u.Email,
			Month:     month,
			Category:  category,
			Goal:      row.Goal,
			Spent:     row.Spent,
			Level:     level,
			Timestamp: p.now().UTC(),
		}
		if err := p.alerts.PublishBudgetAlert(ctx, alert); err != nil {
			p.log.WarnContext(ctx, "Budget alert not published",
				log.FieldUserID, u.ID,
				log.FieldCategory, category,
				log.FieldError, err)
			return
		}
		p.log.InfoContext(ctx, "Budget alert published",
			log.FieldUserID, u.ID,
			log.FieldCategory, category,
			log.FieldLevel, string(level))
		return
	}
}

func (p *Planner) parseDateOrToday(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		now := p.now()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
	}
	return core.ParseDate(s)
}

func optionalMonth(s string) (core.Month, error) {
	if strings.TrimSpace(s) == "" {
		return core.Month{}, nil
	}
	return core.ParseMonth(s)
}

// IsUserError reports whether err is a caller mistake rather than a store
// or infrastructure failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		core.ErrValidation,
		core.ErrNotFound,
		core.ErrNotLoggedIn,
		core.ErrForbidden,
		core.ErrInvalidCredentials,
		core.ErrAlreadyExists,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
