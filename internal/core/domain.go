package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
)

// TimestampLayout is the text layout of created_at/updated_at cells.
const TimestampLayout = "2006-01-02 15:04:05"

type (
	Role string

	// Date is a calendar date without time of day, always UTC midnight.
	Date struct {
		time.Time
	}

	// Month is a calendar month in YYYY-MM form.
	Month struct {
		Year  int
		Month int // 1-12
	}

	User struct {
		ID           string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
		Role         Role
	}

	// Session is the identity an operation runs as. The zero value is an
	// anonymous caller.
	Session struct {
		Email string
		Role  Role
	}

	Transaction struct {
		ID        string
		UserID    string
		Date      Date
		Category  string
		Amount    Money // signed, never zero
		Note      string
		CreatedAt time.Time
	}

	BudgetGoal struct {
		ID          string
		UserID      string
		Month       Month
		Category    string
		MonthlyGoal Money
	}
)

// AllowedCategories is the fixed set of categories accepted on
// transactions and budget goals.
var AllowedCategories = []string{
	"groceries",
	"house-bills",
	"transport",
	"social",
	"health",
	"work-related",
	"subscriptions",
	"entertainment",
	"savings",
	"misc",
}

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// NormalizeCategory trims and lowercases c and checks it against AllowedCategories.
func NormalizeCategory(c string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(c))
	for _, allowed := range AllowedCategories {
		if norm == allowed {
			return norm, nil
		}
	}
	return "", fmt.Errorf("%w %q (allowed: %s)", ErrInvalidCategory, c, strings.Join(AllowedCategories, ", "))
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(email))
	if norm == "" {
		return "", ErrEmptyEmail
	}
	return norm, nil
}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleEditor:
		return r, nil
	default:
		return "", fmt.Errorf("%w %q (allowed: user, editor)", ErrInvalidRole, s)
	}
}

func (r Role) String() string {
	return string(r)
}

// IsAnonymous reports whether no login is attached to the session.
func (s Session) IsAnonymous() bool {
	return strings.TrimSpace(s.Email) == ""
}

func (s Session) IsEditor() bool {
	return !s.IsAnonymous() && s.Role == RoleEditor
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// Month returns the calendar month the date falls in.
func (d Date) Month() Month {
	return Month{Year: d.Year(), Month: int(d.Time.Month())}
}

// ParseMonth parses a YYYY-MM month with a month number between 01 and 12.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if !monthPattern.MatchString(s) {
		return Month{}, fmt.Errorf("%w %q (expected YYYY-MM)", ErrInvalidMonth, s)
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[5:])
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w %q (month must be 01-12)", ErrInvalidMonth, s)
	}
	return Month{Year: year, Month: month}, nil
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Contains matches the date's text form against the month as a prefix.
func (m Month) Contains(d Date) bool {
	return strings.HasPrefix(d.String(), m.String())
}

// Period selects transactions either by month (YYYY-MM) or by exact day
// (YYYY-MM-DD). The zero value matches everything.
type Period struct {
	month Month
	day   Date
}

// ParsePeriod accepts "", a YYYY-MM month or a YYYY-MM-DD date.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Period{}, nil
	case monthPattern.MatchString(s):
		m, err := ParseMonth(s)
		if err != nil {
			return Period{}, err
		}
		return Period{month: m}, nil
	default:
		d, err := ParseDate(s)
		if err != nil {
			return Period{}, err
		}
		return Period{day: d}, nil
	}
}

func MonthPeriod(m Month) Period {
	return Period{month: m}
}

func DayPeriod(d Date) Period {
	return Period{day: d}
}

func (p Period) IsZero() bool {
	return p.month.IsZero() && p.day.IsZero()
}

func (p Period) Contains(d Date) bool {
	switch {
	case !p.day.IsZero():
		return d.String() == p.day.String()
	case !p.month.IsZero():
		return p.month.Contains(d)
	default:
		return true
	}
}

func (p Period) String() string {
	if !p.day.IsZero() {
		return p.day.String()
	}
	return p.month.String()
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrMissingUser
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if _, err := NormalizeCategory(t.Category); err != nil {
		return err
	}
	if t.Amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

func (g BudgetGoal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrMissingUser
	}
	if g.Month.IsZero() {
		return fmt.Errorf("%w: month is required", ErrInvalidMonth)
	}
	if g.Month.Month < 1 || g.Month.Month > 12 {
		return fmt.Errorf("%w %q (month must be 01-12)", ErrInvalidMonth, g.Month.String())
	}
	if _, err := NormalizeCategory(g.Category); err != nil {
		return err
	}
	if !g.MonthlyGoal.IsPositive() {
		return ErrInvalidGoal
	}
	return nil
}
