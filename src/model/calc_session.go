package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/zeitan/backend/src/database"
	"github.com/username/zeitan/backend/src/models"
)

var ErrSessionNotFound = errors.New("calculation session not found")

// Fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SessionStore persists calculation sessions together with their inputs and
// results.
type SessionStore struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewSessionStore(db *sql.DB, dialect database.Dialect) *SessionStore {
	return &SessionStore{db: db, dialect: dialect}
}

func (s *SessionStore) q(query string) string {
	return database.Rebind(s.dialect, query)
}

// InsertCalcSession writes the session, its transactions and its results in
// one database transaction and returns the stored header.
func (s *SessionStore) InsertCalcSession(ctx context.Context, method models.CalculationMethod, transactions []models.CanonicalTransaction, results []models.TradeResult, summary models.CalculationSummary, note *string) (models.CalcSession, error) {
	session := models.CalcSession{
		CreatedAt:        time.Now().UTC(),
		CalcMethod:       method,
		TotalProfitLoss:  summary.TotalProfitLoss,
		TransactionCount: len(transactions),
		Note:             note,
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return session, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	err = dbTx.QueryRowContext(ctx,
		s.q(`INSERT INTO calc_sessions (created_at, calc_method, total_profit_loss, transaction_count, note) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		session.CreatedAt.Format(timeLayout), string(method), session.TotalProfitLoss.String(), session.TransactionCount, nullString(note),
	).Scan(&session.ID)
	if err != nil {
		return session, fmt.Errorf("error inserting calculation session: %w", err)
	}

	txStmt, err := dbTx.PrepareContext(ctx, s.q(`INSERT INTO transactions (session_id, position, timestamp, exchange, symbol, type, amount, price, fee) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return session, fmt.Errorf("error preparing transaction insert: %w", err)
	}
	defer txStmt.Close()
	for i, tx := range transactions {
		if _, err := txStmt.ExecContext(ctx, session.ID, i, tx.Timestamp.UTC().Format(timeLayout), tx.Exchange, tx.Symbol, string(tx.Type),
			tx.Amount.String(), tx.Price.String(), tx.Fee.String()); err != nil {
			return session, fmt.Errorf("error inserting transaction %d: %w", i, err)
		}
	}

	resStmt, err := dbTx.PrepareContext(ctx, s.q(`INSERT INTO trade_results (session_id, position, timestamp, exchange, symbol, type, amount, price, fee, profit_loss, average_cost_used, average_cost_after, held_quantity_after, oversold) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return session, fmt.Errorf("error preparing trade result insert: %w", err)
	}
	defer resStmt.Close()
	for i, r := range results {
		if _, err := resStmt.ExecContext(ctx, session.ID, i, r.Timestamp.UTC().Format(timeLayout), r.Exchange, r.Symbol, string(r.Type),
			r.Amount.String(), r.Price.String(), r.Fee.String(), r.ProfitLoss.String(),
			nullDecimalString(r.AverageCostUsed), nullDecimalString(r.AverageCostAfter), r.HeldQuantityAfter.String(), r.Oversold); err != nil {
			return session, fmt.Errorf("error inserting trade result %d: %w", i, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return session, fmt.Errorf("error committing calculation session: %w", err)
	}
	return session, nil
}

// ListCalcSessions returns session headers, newest first.
func (s *SessionStore) ListCalcSessions(ctx context.Context, limit int) ([]models.CalcSession, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT id, created_at, calc_method, total_profit_loss, transaction_count, note FROM calc_sessions ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("error querying calculation sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.CalcSession{}
	for rows.Next() {
		session, err := scanCalcSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calculation sessions: %w", err)
	}
	return sessions, nil
}

// GetCalcSessionDetail loads one session with its transactions and results in
// their original order.
func (s *SessionStore) GetCalcSessionDetail(ctx context.Context, id int64) (*models.SessionDetail, error) {
	row := s.db.QueryRowContext(ctx,
		s.q(`SELECT id, created_at, calc_method, total_profit_loss, transaction_count, note FROM calc_sessions WHERE id = ?`), id)
	session, err := scanCalcSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	detail := &models.SessionDetail{CalcSession: session}
	if detail.Transactions, err = s.loadTransactions(ctx, id); err != nil {
		return nil, err
	}
	if detail.Results, err = s.loadResults(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteCalcSession removes a session and everything attached to it.
func (s *SessionStore) DeleteCalcSession(ctx context.Context, id int64) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, table := range []string{"trade_results", "transactions"} {
		if _, err := dbTx.ExecContext(ctx, s.q("DELETE FROM "+table+" WHERE session_id = ?"), id); err != nil {
			return fmt.Errorf("error deleting %s of session %d: %w", table, id, err)
		}
	}
	res, err := dbTx.ExecContext(ctx, s.q(`DELETE FROM calc_sessions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("error deleting session %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return dbTx.Commit()
}

func (s *SessionStore) loadTransactions(ctx context.Context, id int64) ([]models.CanonicalTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT timestamp, exchange, symbol, type, amount, price, fee FROM transactions WHERE session_id = ? ORDER BY position`), id)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions of session %d: %w", id, err)
	}
	defer rows.Close()

	transactions := []models.CanonicalTransaction{}
	for rows.Next() {
		var tx models.CanonicalTransaction
		var ts, txType, amount, price, fee string
		if err := rows.Scan(&ts, &tx.Exchange, &tx.Symbol, &txType, &amount, &price, &fee); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		if err := fillCanonical(&tx, ts, txType, amount, price, fee); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (s *SessionStore) loadResults(ctx context.Context, id int64) ([]models.TradeResult, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT timestamp, exchange, symbol, type, amount, price, fee, profit_loss, average_cost_used, average_cost_after, held_quantity_after, oversold FROM trade_results WHERE session_id = ? ORDER BY position`), id)
	if err != nil {
		return nil, fmt.Errorf("error querying trade results of session %d: %w", id, err)
	}
	defer rows.Close()

	results := []models.TradeResult{}
	for rows.Next() {
		var r models.TradeResult
		var ts, txType, amount, price, fee, profitLoss, held string
		var used, after sql.NullString
		if err := rows.Scan(&ts, &r.Exchange, &r.Symbol, &txType, &amount, &price, &fee, &profitLoss, &used, &after, &held, &r.Oversold); err != nil {
			return nil, fmt.Errorf("error scanning trade result: %w", err)
		}
		if err := fillCanonical(&r.CanonicalTransaction, ts, txType, amount, price, fee); err != nil {
			return nil, err
		}
		if r.ProfitLoss, err = decimal.NewFromString(profitLoss); err != nil {
			return nil, fmt.Errorf("corrupt profit_loss %q: %w", profitLoss, err)
		}
		if r.HeldQuantityAfter, err = decimal.NewFromString(held); err != nil {
			return nil, fmt.Errorf("corrupt held_quantity_after %q: %w", held, err)
		}
		if r.AverageCostUsed, err = parseNullDecimal(used); err != nil {
			return nil, err
		}
		if r.AverageCostAfter, err = parseNullDecimal(after); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalcSession(row rowScanner) (models.CalcSession, error) {
	var session models.CalcSession
	var createdAt, method, total string
	var note sql.NullString
	if err := row.Scan(&session.ID, &createdAt, &method, &total, &session.TransactionCount, &note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session, err
		}
		return session, fmt.Errorf("error scanning calculation session: %w", err)
	}
	var err error
	if session.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return session, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	if session.TotalProfitLoss, err = decimal.NewFromString(total); err != nil {
		return session, fmt.Errorf("corrupt total_profit_loss %q: %w", total, err)
	}
	session.CalcMethod = models.CalculationMethod(method)
	if note.Valid {
		n := note.String
		session.Note = &n
	}
	return session, nil
}

func fillCanonical(tx *models.CanonicalTransaction, ts, txType, amount, price, fee string) error {
	var err error
	if tx.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
		return fmt.Errorf("corrupt timestamp %q: %w", ts, err)
	}
	tx.Type, _ = models.ParseTransactionType(txType)
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return fmt.Errorf("corrupt amount %q: %w", amount, err)
	}
	if tx.Price, err = decimal.NewFromString(price); err != nil {
		return fmt.Errorf("corrupt price %q: %w", price, err)
	}
	if tx.Fee, err = decimal.NewFromString(fee); err != nil {
		return fmt.Errorf("corrupt fee %q: %w", fee, err)
	}
	return nil
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("corrupt decimal %q: %w", s.String, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func nullDecimalString(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
