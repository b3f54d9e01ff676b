// Package folio keeps a portfolio's full history in a single JSON document
// and runs a disciplined engine pass over it. It is designed to be
// local-first and auditable: the history file is human-readable,
// version-controllable, and byte-stable under decode/encode.
//
// The core functionalities include:
//   - Ledger Management: The open position book with weighted-average cost
//     bases and full add histories, the permanent closed-position record,
//     and the run snapshot sequence, persisted atomically under an advisory
//     lock.
//   - Performance Calculation: Valuing the book against an externally
//     supplied market snapshot, detecting stop-loss and target breaches, and
//     computing lifetime, period, and benchmark-relative returns.
//   - Risk Engine: Deriving drawdown, loss streak, and win rate from the
//     recorded history and mapping them to a risk mode (NORMAL, CAUTION,
//     DEFENSIVE, CRITICAL) whose rules constrain new capital deployment.
//   - Allocation Validation: Checking a proposed action sequence, in order
//     and cumulatively, against position, sector, cash, and count caps,
//     downgrading violators to HOLD with structured violation codes.
//   - Recommendation Application: Executing the accepted actions against a
//     copy of the book, all or nothing, and recording the post-action
//     snapshot.
//
// This package serves as the foundational logic for the `folio` command-line
// tool. It never fetches market data and never produces recommendations;
// prices and proposals are inputs from external collaborators.
package folio
