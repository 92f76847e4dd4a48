package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldTable     = "table"
	FieldRows      = "rows"
	FieldEmail     = "email"
	FieldTarget    = "target_email"
	FieldUserID    = "user_id"
	FieldRole      = "role"
	FieldTxnID     = "txn_id"
	FieldBudgetID  = "budget_id"
	FieldMonth     = "month"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldLevel     = "alert_level"
	FieldBackend   = "backend"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentPlanner   = "planner"
	ComponentDirectory = "directory"
	ComponentLedger    = "ledger"
	ComponentBudget    = "budget"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
