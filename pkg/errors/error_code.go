package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidQuantity      ErrorCode = 104
	ErrCodeInvalidCandleSeries  ErrorCode = 105

	// Data errors (200-299)
	ErrCodeNoDataFound     ErrorCode = 200
	ErrCodeQueryFailed     ErrorCode = 201
	ErrCodeDataParseFailed ErrorCode = 202
	ErrCodeDataWriteFailed ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeStrategyNotLoaded   ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401
	ErrCodeStrategyRuntime     ErrorCode = 402

	// Trading errors (500-599)
	ErrCodeOrderFailed      ErrorCode = 500
	ErrCodePositionNotFound ErrorCode = 501

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError ErrorCode = 600
	ErrCodeBacktestNoStrategy  ErrorCode = 601
	ErrCodeBacktestNoData      ErrorCode = 602
	ErrCodeBacktestStoreFailed ErrorCode = 603
)
