package reservation

type Status string

const (
	StatusPending          Status = "pending"
	StatusAwaitingPayment  Status = "awaiting_payment"
	StatusPaymentConfirmed Status = "payment_confirmed"
	StatusRejected         Status = "rejected"
	StatusCancelled        Status = "cancelled"
)

// AllStatuses is ordered the way dashboards list them.
var AllStatuses = []Status{
	StatusPending,
	StatusAwaitingPayment,
	StatusPaymentConfirmed,
	StatusRejected,
	StatusCancelled,
}

var statusLabels = map[Status]string{
	StatusPending:          "Pending",
	StatusAwaitingPayment:  "Approved - Awaiting Payment",
	StatusPaymentConfirmed: "Approved - Payment Confirmed",
	StatusRejected:         "Rejected",
	StatusCancelled:        "Cancelled",
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsTerminal reports whether the status only leaves through Resubmit.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	return p == PaymentPending || p == PaymentPaid
}

type RejectionReason string

const (
	RejectionNone           RejectionReason = ""
	RejectionByOperator     RejectionReason = "operator"
	RejectionDeadlineLapsed RejectionReason = "payment_deadline_lapsed"
)

func (r RejectionReason) String() string {
	return string(r)
}

// Settlement classifies an incoming successful payment against the record it names.
type Settlement int

const (
	SettlementAlreadyPaid Settlement = iota
	// deadline still open: the record already holds its day
	SettlementOnTime
	// deadline lapsed (swept or not): the day must be re-checked before confirming
	SettlementLate
)
