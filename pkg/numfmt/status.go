package numfmt

// TxStatus is the display state of a transaction.
type TxStatus int

const (
	StatusPending TxStatus = -1
	StatusFailed  TxStatus = 0
	StatusSuccess TxStatus = 1
)

func (s TxStatus) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusPending:
		return "Pending"
	case StatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// FormatStatus maps 1, -1 and 0 to "Success", "Pending" and "Failed".
// Any other value is "Unknown".
func FormatStatus(status int) string {
	return TxStatus(status).String()
}
