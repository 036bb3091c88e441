package models

// ✅ Spin states
const (
	SpinStateSpinning  = "spinning"
	SpinStateTreat     = "treat"
	SpinStateTrick     = "trick"
	SpinStateClaimed   = "claimed"
	SpinStateDismissed = "dismissed"
	SpinStatePenalized = "penalized"
	SpinStateForfeited = "forfeited"
)

// ✅ Spin outcomes
const (
	OutcomeTreat = "treat"
	OutcomeTrick = "trick"
)

// SpinRecord is the persisted audit row for one trick-or-treat spin.
type SpinRecord struct {
	SpinID     string `dynamodbav:"spinId" json:"spinId"`
	UserID     string `dynamodbav:"userId" json:"userId"`
	State      string `dynamodbav:"state" json:"state"`
	Outcome    string `dynamodbav:"outcome,omitempty" json:"outcome,omitempty"`
	Amount     int    `dynamodbav:"amount,omitempty" json:"amount,omitempty"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	ResolvedAt string `dynamodbav:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// SpinsTable is the DynamoDB table name for spin records
const SpinsTable = "Spins"
