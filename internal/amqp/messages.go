package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetplanner/internal/core"
)

// BudgetAlertMessage is the wire form of core.BudgetAlert. Amounts travel as
// decimal strings so no precision is lost.
type BudgetAlertMessage struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Month     string    `json:"month"`
	Category  string    `json:"category"`
	Goal      string    `json:"goal"`
	Spent     string    `json:"spent"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(a core.BudgetAlert) *BudgetAlertMessage {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &BudgetAlertMessage{
		UserID:    a.UserID,
		Email:     a.Email,
		Month:     a.Month.String(),
		Category:  a.Category,
		Goal:      a.Goal.Raw(),
		Spent:     a.Spent.Raw(),
		Level:     string(a.Level),
		Timestamp: ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Alert decodes the message back into a validated core.BudgetAlert.
func (m *BudgetAlertMessage) Alert() (core.BudgetAlert, error) {
	month, err := core.ParseMonth(m.Month)
	if err != nil {
		return core.BudgetAlert{}, err
	}
	goal, err := core.ParseMoney(m.Goal)
	if err != nil {
		return core.BudgetAlert{}, fmt.Errorf("goal: %w", err)
	}
	spent, err := core.ParseMoney(m.Spent)
	if err != nil {
		return core.BudgetAlert{}, fmt.Errorf("spent: %w", err)
	}
	level := core.AlertLevel(m.Level)
	if level != core.AlertWarning && level != core.AlertExceeded {
		return core.BudgetAlert{}, fmt.Errorf("unknown alert level %q", m.Level)
	}
	return core.BudgetAlert{
		UserID:    m.UserID,
		Email:     m.Email,
		Month:     month,
		Category:  m.Category,
		Goal:      goal,
		Spent:     spent,
		Level:     level,
		Timestamp: m.Timestamp,
	}, nil
}
