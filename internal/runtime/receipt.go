package runtime

import (
	"log/slog"

	"github.com/congo-pay/congo_chain/internal/support"
	"github.com/congo-pay/congo_chain/internal/types"
)

// Receipt records what happened to each extrinsic of an executed block.
type Receipt struct {
	BlockNumber types.BlockNumber
	Extrinsics  []ExtrinsicResult
}

// ExtrinsicResult is the outcome of one extrinsic. Err is nil on success.
type ExtrinsicResult struct {
	Index  int
	Caller types.AccountID
	Err    error
}

// Failed returns the results whose dispatch returned an error.
func (r Receipt) Failed() []ExtrinsicResult {
	var out []ExtrinsicResult
	for _, res := range r.Extrinsics {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// ExtrinsicFailure describes an extrinsic whose call failed.
type ExtrinsicFailure struct {
	BlockNumber types.BlockNumber
	Index       int
	Caller      types.AccountID
	Err         error
}

// BlockAbort describes a block rejected before any extrinsic ran.
type BlockAbort struct {
	SystemBlockNumber types.BlockNumber
	HeaderBlockNumber types.BlockNumber
	Err               error
}

// Reporter receives structured failure information during block execution.
// Calls happen synchronously from ExecuteBlock.
type Reporter interface {
	ExtrinsicFailed(ExtrinsicFailure)
	BlockAborted(BlockAbort)
}

type nopReporter struct{}

func (nopReporter) ExtrinsicFailed(ExtrinsicFailure) {}
func (nopReporter) BlockAborted(BlockAbort)          {}

// LogReporter writes failures to a structured logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter builds a reporter on top of logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// ExtrinsicFailed logs a failed extrinsic at warn level.
func (l *LogReporter) ExtrinsicFailed(f ExtrinsicFailure) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn("extrinsic failed",
		slog.Uint64("block_number", uint64(f.BlockNumber)),
		slog.Int("extrinsic_index", f.Index),
		slog.String("caller", string(f.Caller)),
		slog.String("error_kind", support.KindOf(f.Err).String()),
		slog.Any("error", f.Err),
	)
}

// BlockAborted logs a rejected block at error level.
func (l *LogReporter) BlockAborted(a BlockAbort) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Error("block aborted",
		slog.Uint64("system_block_number", uint64(a.SystemBlockNumber)),
		slog.Uint64("block_number", uint64(a.HeaderBlockNumber)),
		slog.Any("error", a.Err),
	)
}
