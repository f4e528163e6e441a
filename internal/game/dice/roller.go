package dice

import "go.uber.org/zap"

// Roller is the shared dice service: one Source plus a logger that records
// every throw at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller returns a Roller drawing from src. A nil logger discards output.
//
// Precondition: src is non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice.NewRoller: source must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll throws expr.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	res, err := Roll(expr, r.src)
	if err != nil {
		r.logger.Warn("dice roll rejected", zap.Stringer("expression", expr), zap.Error(err))
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("expression", res.Expression),
		zap.Ints("dice", res.Dice),
		zap.Int("total", res.Total()),
	)
	return res, nil
}

// RollExpr parses and throws expr; unparseable input is logged at warn.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		r.logger.Warn("malformed dice expression", zap.String("expression", expr), zap.Error(err))
		return RollResult{}, err
	}
	return r.Roll(e)
}
