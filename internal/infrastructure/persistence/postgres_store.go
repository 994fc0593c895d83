package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
	"github.com/ignatzorin/arbitration-backend/internal/repository/common"
)

// PostgresStore хранит состояние арбитража в PostgreSQL, одно действие - одна транзакция.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (s *PostgresStore) View(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (s *PostgresStore) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	err := common.WithTransaction(ctx, s.db, opts, func(tx *sqlx.Tx) error {
		return fn(ctx, &pgTx{tx: tx})
	})
	return dbError(err, "ошибка транзакции")
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// dbError оставляет доменные ошибки как есть, остальные помечает как ошибки базы.
func dbError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}

type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) Config() repository.ConfigRepository         { return pgConfig{t.tx} }
func (t *pgTx) Accounts() repository.AccountRepository       { return pgAccounts{t.tx} }
func (t *pgTx) Cases() repository.CaseRepository             { return pgCases{t.tx} }
func (t *pgTx) Claims() repository.ClaimRepository           { return pgClaims{t.tx} }
func (t *pgTx) Offers() repository.OfferRepository           { return pgOffers{t.tx} }
func (t *pgTx) Arbitrators() repository.ArbitratorRepository { return pgArbitrators{t.tx} }
func (t *pgTx) Nominees() repository.NomineeRepository       { return pgNominees{t.tx} }
func (t *pgTx) Elections() repository.ElectionRepository     { return pgElections{t.tx} }
func (t *pgTx) Transfers() repository.TransferRepository     { return pgTransfers{t.tx} }
func (t *pgTx) Principals() repository.PrincipalRepository   { return pgPrincipals{t.tx} }

func nextSequence(ctx context.Context, tx *sqlx.Tx, sequence string) (uint64, error) {
	var id int64
	if err := tx.GetContext(ctx, &id, fmt.Sprintf("SELECT nextval('%s')", sequence)); err != nil {
		return 0, dbError(err, "не удалось получить идентификатор")
	}
	return uint64(id), nil
}

type pgConfig struct{ tx *sqlx.Tx }

func (r pgConfig) Get(ctx context.Context) (*entity.Config, error) {
	row, err := common.GetOne[configRow](ctx, r.tx, apperror.ErrNotInitialized, `SELECT admin, contract_version, max_elected_arbs,
		election_voting_duration, runoff_voting_duration, add_candidates_duration, arb_term_length,
		accepting_offers_duration, current_election_id, fee_usd, max_claims_per_case, available_funds, reserved_funds
		FROM contract_config WHERE id = 1`)
	if err != nil {
		return nil, dbError(err, "не удалось получить конфигурацию")
	}
	return row.toEntity()
}

func (r pgConfig) Save(ctx context.Context, config *entity.Config) error {
	query := `
		INSERT INTO contract_config (id, admin, contract_version, max_elected_arbs, election_voting_duration,
			runoff_voting_duration, add_candidates_duration, arb_term_length, accepting_offers_duration,
			current_election_id, fee_usd, max_claims_per_case, available_funds, reserved_funds)
		VALUES (1, :admin, :contract_version, :max_elected_arbs, :election_voting_duration,
			:runoff_voting_duration, :add_candidates_duration, :arb_term_length, :accepting_offers_duration,
			:current_election_id, :fee_usd, :max_claims_per_case, :available_funds, :reserved_funds)
		ON CONFLICT (id) DO UPDATE SET
			admin = EXCLUDED.admin,
			contract_version = EXCLUDED.contract_version,
			max_elected_arbs = EXCLUDED.max_elected_arbs,
			election_voting_duration = EXCLUDED.election_voting_duration,
			runoff_voting_duration = EXCLUDED.runoff_voting_duration,
			add_candidates_duration = EXCLUDED.add_candidates_duration,
			arb_term_length = EXCLUDED.arb_term_length,
			accepting_offers_duration = EXCLUDED.accepting_offers_duration,
			current_election_id = EXCLUDED.current_election_id,
			fee_usd = EXCLUDED.fee_usd,
			max_claims_per_case = EXCLUDED.max_claims_per_case,
			available_funds = EXCLUDED.available_funds,
			reserved_funds = EXCLUDED.reserved_funds
	`
	_, err := r.tx.NamedExecContext(ctx, query, newConfigRow(config))
	return dbError(err, "не удалось сохранить конфигурацию")
}

type pgAccounts struct{ tx *sqlx.Tx }

func (r pgAccounts) FindByOwner(ctx context.Context, owner string) (*entity.Account, error) {
	row, err := common.GetOne[accountRow](ctx, r.tx, nil, `SELECT owner, balance FROM accounts WHERE owner = $1`, owner)
	if err != nil {
		return nil, dbError(err, "не удалось получить баланс")
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r pgAccounts) Save(ctx context.Context, account *entity.Account) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO accounts (owner, balance) VALUES ($1, $2)
		ON CONFLICT (owner) DO UPDATE SET balance = EXCLUDED.balance
	`, account.Owner, account.Balance.String())
	return dbError(err, "не удалось сохранить баланс")
}

func (r pgAccounts) Delete(ctx context.Context, owner string) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM accounts WHERE owner = $1`, owner)
	return dbError(err, "не удалось удалить баланс")
}

const caseColumns = `id, status, claimant, respondant, arbitrators, approvals, required_langs, number_claims,
	number_offers, case_ruling, recusal, updated_at, fee_paid_tlos, arbitrator_cost_tlos, sending_offers_until`

type pgCases struct{ tx *sqlx.Tx }

func (r pgCases) NextID(ctx context.Context) (uint64, error) {
	return nextSequence(ctx, r.tx, "case_ids")
}

func (r pgCases) Create(ctx context.Context, cf *entity.CaseFile) error {
	query := `
		INSERT INTO cases (` + caseColumns + `)
		VALUES (:id, :status, :claimant, :respondant, :arbitrators, :approvals, :required_langs, :number_claims,
			:number_offers, :case_ruling, :recusal, :updated_at, :fee_paid_tlos, :arbitrator_cost_tlos, :sending_offers_until)
	`
	_, err := r.tx.NamedExecContext(ctx, query, newCaseRow(cf))
	return dbError(err, "не удалось создать дело")
}

func (r pgCases) Update(ctx context.Context, cf *entity.CaseFile) error {
	query := `
		UPDATE cases SET status = :status, arbitrators = :arbitrators, approvals = :approvals,
			required_langs = :required_langs, number_claims = :number_claims, number_offers = :number_offers,
			case_ruling = :case_ruling, recusal = :recusal, updated_at = :updated_at,
			fee_paid_tlos = :fee_paid_tlos, arbitrator_cost_tlos = :arbitrator_cost_tlos,
			sending_offers_until = :sending_offers_until
		WHERE id = :id
	`
	query, args, err := sqlx.Named(query, newCaseRow(cf))
	if err != nil {
		return dbError(err, "не удалось обновить дело")
	}
	err = common.ExecAffected(ctx, r.tx, apperror.ErrCaseNotFound, r.tx.Rebind(query), args...)
	return dbError(err, "не удалось обновить дело")
}

func (r pgCases) Delete(ctx context.Context, id uint64) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, int64(id))
	return dbError(err, "не удалось удалить дело")
}

func (r pgCases) FindByID(ctx context.Context, id uint64) (*entity.CaseFile, error) {
	row, err := common.GetOne[caseRow](ctx, r.tx, apperror.ErrCaseNotFound, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, int64(id))
	if err != nil {
		return nil, dbError(err, "не удалось получить дело")
	}
	return row.toEntity()
}

func (r pgCases) List(ctx context.Context, filter repository.CaseFilter) ([]*entity.CaseFile, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1=1`
	args := []interface{}{}
	if filter.Claimant != "" {
		args = append(args, filter.Claimant)
		query += fmt.Sprintf(" AND claimant = $%d", len(args))
	}
	if filter.Respondant != "" {
		args = append(args, filter.Respondant)
		query += fmt.Sprintf(" AND respondant = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, int64(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := common.SelectAll[caseRow](ctx, r.tx, query, args...)
	if err != nil {
		return nil, dbError(err, "не удалось получить список дел")
	}
	cases := make([]*entity.CaseFile, 0, len(rows))
	for _, row := range rows {
		cf, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		cases = append(cases, cf)
	}
	return cases, nil
}

const claimColumns = `id, case_id, summary, decision_link, response_link, status, category, claimant_limit_time,
	respondant_limit_time, claim_info_needed, response_info_needed, claim_info_required, response_info_required`

type pgClaims struct{ tx *sqlx.Tx }

func (r pgClaims) NextID(ctx context.Context) (uint64, error) {
	return nextSequence(ctx, r.tx, "claim_ids")
}

func (r pgClaims) Create(ctx context.Context, claim *entity.Claim) error {
	query := `
		INSERT INTO claims (` + claimColumns + `)
		VALUES (:id, :case_id, :summary, :decision_link, :response_link, :status, :category, :claimant_limit_time,
			:respondant_limit_time, :claim_info_needed, :response_info_needed, :claim_info_required, :response_info_required)
	`
	_, err := r.tx.NamedExecContext(ctx, query, newClaimRow(claim))
	return dbError(err, "не удалось создать иск")
}

func (r pgClaims) Update(ctx context.Context, claim *entity.Claim) error {
	query := `
		UPDATE claims SET summary = :summary, decision_link = :decision_link, response_link = :response_link,
			status = :status, category = :category, claimant_limit_time = :claimant_limit_time,
			respondant_limit_time = :respondant_limit_time, claim_info_needed = :claim_info_needed,
			response_info_needed = :response_info_needed, claim_info_required = :claim_info_required,
			response_info_required = :response_info_required
		WHERE case_id = :case_id AND id = :id
	`
	query, args, err := sqlx.Named(query, newClaimRow(claim))
	if err != nil {
		return dbError(err, "не удалось обновить иск")
	}
	err = common.ExecAffected(ctx, r.tx, apperror.ErrClaimNotFound, r.tx.Rebind(query), args...)
	return dbError(err, "не удалось обновить иск")
}

func (r pgClaims) Delete(ctx context.Context, caseID, id uint64) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM claims WHERE case_id = $1 AND id = $2`, int64(caseID), int64(id))
	return dbError(err, "не удалось удалить иск")
}

func (r pgClaims) DeleteByCaseID(ctx context.Context, caseID uint64) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM claims WHERE case_id = $1`, int64(caseID))
	return dbError(err, "не удалось удалить иски")
}

func (r pgClaims) FindByID(ctx context.Context, caseID, id uint64) (*entity.Claim, error) {
	row, err := common.GetOne[claimRow](ctx, r.tx, apperror.ErrClaimNotFound,
		`SELECT `+claimColumns+` FROM claims WHERE case_id = $1 AND id = $2`, int64(caseID), int64(id))
	if err != nil {
		return nil, dbError(err, "не удалось получить иск")
	}
	return row.toEntity(), nil
}

func (r pgClaims) FindByCaseID(ctx context.Context, caseID uint64) ([]*entity.Claim, error) {
	rows, err := common.SelectAll[claimRow](ctx, r.tx, `SELECT `+claimColumns+` FROM claims WHERE case_id = $1 ORDER BY id`, int64(caseID))
	if err != nil {
		return nil, dbError(err, "не удалось получить иски")
	}
	claims := make([]*entity.Claim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, row.toEntity())
	}
	return claims, nil
}

type pgOffers struct{ tx *sqlx.Tx }

func (r pgOffers) NextID(ctx context.Context) (uint64, error) {
	return nextSequence(ctx, r.tx, "offer_ids")
}

func (r pgOffers) Create(ctx context.Context, offer *entity.Offer) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO offers (id, case_id, status, estimated_hours, arbitrator, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, int64(offer.ID), int64(offer.CaseID), int64(offer.Status), int64(offer.EstimatedHours), offer.Arbitrator, offer.HourlyRate.String())
	return dbError(err, "не удалось создать предложение")
}

func (r pgOffers) Update(ctx context.Context, offer *entity.Offer) error {
	err := common.ExecAffected(ctx, r.tx, apperror.ErrOfferNotFound, `
		UPDATE offers SET status = $2, estimated_hours = $3, hourly_rate = $4 WHERE id = $1
	`, int64(offer.ID), int64(offer.Status), int64(offer.EstimatedHours), offer.HourlyRate.String())
	return dbError(err, "не удалось обновить предложение")
}

func (r pgOffers) FindByID(ctx context.Context, id uint64) (*entity.Offer, error) {
	row, err := common.GetOne[offerRow](ctx, r.tx, apperror.ErrOfferNotFound,
		`SELECT id, case_id, status, estimated_hours, arbitrator, hourly_rate FROM offers WHERE id = $1`, int64(id))
	if err != nil {
		return nil, dbError(err, "не удалось получить предложение")
	}
	return row.toEntity()
}

func (r pgOffers) FindByCaseID(ctx context.Context, caseID uint64) ([]*entity.Offer, error) {
	rows, err := common.SelectAll[offerRow](ctx, r.tx,
		`SELECT id, case_id, status, estimated_hours, arbitrator, hourly_rate FROM offers WHERE case_id = $1 ORDER BY id`, int64(caseID))
	if err != nil {
		return nil, dbError(err, "не удалось получить предложения")
	}
	offers := make([]*entity.Offer, 0, len(rows))
	for _, row := range rows {
		offer, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

const arbitratorColumns = `name, status, open_case_ids, closed_case_ids, recused_case_ids, credentials_link,
	elected_time, term_expiration, languages`

type pgArbitrators struct{ tx *sqlx.Tx }

func (r pgArbitrators) FindByName(ctx context.Context, name string) (*entity.Arbitrator, error) {
	row, err := common.GetOne[arbitratorRow](ctx, r.tx, apperror.ErrArbitratorNotFound,
		`SELECT `+arbitratorColumns+` FROM arbitrators WHERE name = $1`, name)
	if err != nil {
		return nil, dbError(err, "не удалось получить арбитра")
	}
	return row.toEntity(), nil
}

func (r pgArbitrators) Save(ctx context.Context, arb *entity.Arbitrator) error {
	query := `
		INSERT INTO arbitrators (` + arbitratorColumns + `)
		VALUES (:name, :status, :open_case_ids, :closed_case_ids, :recused_case_ids, :credentials_link,
			:elected_time, :term_expiration, :languages)
		ON CONFLICT (name) DO UPDATE SET
			status = EXCLUDED.status,
			open_case_ids = EXCLUDED.open_case_ids,
			closed_case_ids = EXCLUDED.closed_case_ids,
			recused_case_ids = EXCLUDED.recused_case_ids,
			credentials_link = EXCLUDED.credentials_link,
			elected_time = EXCLUDED.elected_time,
			term_expiration = EXCLUDED.term_expiration,
			languages = EXCLUDED.languages
	`
	_, err := r.tx.NamedExecContext(ctx, query, newArbitratorRow(arb))
	return dbError(err, "не удалось сохранить арбитра")
}

func (r pgArbitrators) List(ctx context.Context) ([]*entity.Arbitrator, error) {
	rows, err := common.SelectAll[arbitratorRow](ctx, r.tx, `SELECT `+arbitratorColumns+` FROM arbitrators ORDER BY name`)
	if err != nil {
		return nil, dbError(err, "не удалось получить арбитров")
	}
	arbs := make([]*entity.Arbitrator, 0, len(rows))
	for _, row := range rows {
		arbs = append(arbs, row.toEntity())
	}
	return arbs, nil
}

type pgNominees struct{ tx *sqlx.Tx }

func (r pgNominees) FindByName(ctx context.Context, name string) (*entity.Nominee, error) {
	row, err := common.GetOne[nomineeRow](ctx, r.tx, apperror.ErrNomineeNotFound,
		`SELECT name, credentials_link, application_time FROM nominees WHERE name = $1`, name)
	if err != nil {
		return nil, dbError(err, "не удалось получить номинанта")
	}
	return entity.NewNominee(row.Name, row.CredentialsLink, row.ApplicationTime.UTC()), nil
}

func (r pgNominees) Save(ctx context.Context, nominee *entity.Nominee) error {
	_, err := r.tx.ExecContext(ctx, `
		INSERT INTO nominees (name, credentials_link, application_time) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET credentials_link = EXCLUDED.credentials_link, application_time = EXCLUDED.application_time
	`, nominee.Name, nominee.CredentialsLink, nominee.ApplicationTime)
	return dbError(err, "не удалось сохранить номинанта")
}

func (r pgNominees) Delete(ctx context.Context, name string) error {
	_, err := r.tx.ExecContext(ctx, `DELETE FROM nominees WHERE name = $1`, name)
	return dbError(err, "не удалось удалить номинанта")
}

func (r pgNominees) List(ctx context.Context) ([]*entity.Nominee, error) {
	rows, err := common.SelectAll[nomineeRow](ctx, r.tx, `SELECT name, credentials_link, application_time FROM nominees ORDER BY application_time`)
	if err != nil {
		return nil, dbError(err, "не удалось получить номинантов")
	}
	nominees := make([]*entity.Nominee, 0, len(rows))
	for _, row := range rows {
		nominees = append(nominees, entity.NewNominee(row.Name, row.CredentialsLink, row.ApplicationTime.UTC()))
	}
	return nominees, nil
}

const electionColumns = `id, ballot_name, info_url, candidates, available_seats, begin_add_candidates_ts,
	end_add_candidates_ts, begin_voting_ts, end_voting_ts, status`

type pgElections struct{ tx *sqlx.Tx }

func (r pgElections) NextID(ctx context.Context) (uint64, error) {
	return nextSequence(ctx, r.tx, "election_ids")
}

func (r pgElections) Create(ctx context.Context, election *entity.Election) error {
	row, err := newElectionRow(election)
	if err != nil {
		return dbError(err, "не удалось сериализовать выборы")
	}
	query := `
		INSERT INTO elections (` + electionColumns + `)
		VALUES (:id, :ballot_name, :info_url, :candidates, :available_seats, :begin_add_candidates_ts,
			:end_add_candidates_ts, :begin_voting_ts, :end_voting_ts, :status)
	`
	_, err = r.tx.NamedExecContext(ctx, query, row)
	return dbError(err, "не удалось создать выборы")
}

func (r pgElections) Update(ctx context.Context, election *entity.Election) error {
	row, err := newElectionRow(election)
	if err != nil {
		return dbError(err, "не удалось сериализовать выборы")
	}
	query := `
		UPDATE elections SET ballot_name = :ballot_name, info_url = :info_url, candidates = :candidates,
			available_seats = :available_seats, begin_add_candidates_ts = :begin_add_candidates_ts,
			end_add_candidates_ts = :end_add_candidates_ts, begin_voting_ts = :begin_voting_ts,
			end_voting_ts = :end_voting_ts, status = :status
		WHERE id = :id
	`
	query, args, err := sqlx.Named(query, row)
	if err != nil {
		return dbError(err, "не удалось обновить выборы")
	}
	err = common.ExecAffected(ctx, r.tx, apperror.ErrElectionNotFound, r.tx.Rebind(query), args...)
	return dbError(err, "не удалось обновить выборы")
}

func (r pgElections) FindByID(ctx context.Context, id uint64) (*entity.Election, error) {
	row, err := common.GetOne[electionRow](ctx, r.tx, apperror.ErrElectionNotFound,
		`SELECT `+electionColumns+` FROM elections WHERE id = $1`, int64(id))
	if err != nil {
		return nil, dbError(err, "не удалось получить выборы")
	}
	return row.toEntity()
}

func (r pgElections) FindByBallotName(ctx context.Context, ballotName string) (*entity.Election, error) {
	row, err := common.GetOne[electionRow](ctx, r.tx, nil,
		`SELECT `+electionColumns+` FROM elections WHERE ballot_name = $1`, ballotName)
	if err != nil {
		return nil, dbError(err, "не удалось получить выборы")
	}
	if row == nil {
		return nil, nil
	}
	return row.toEntity()
}

func (r pgElections) List(ctx context.Context) ([]*entity.Election, error) {
	rows, err := common.SelectAll[electionRow](ctx, r.tx, `SELECT `+electionColumns+` FROM elections ORDER BY id`)
	if err != nil {
		return nil, dbError(err, "не удалось получить выборы")
	}
	elections := make([]*entity.Election, 0, len(rows))
	for _, row := range rows {
		election, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		elections = append(elections, election)
	}
	return elections, nil
}

const transferColumns = `id, kind, from_account, to_account, quantity, memo, status, attempts, last_error, created_at, sent_at`

var errTransferMissing = apperror.New(apperror.ErrCodeNotFound, "перевод не найден")

type pgTransfers struct{ tx *sqlx.Tx }

func (r pgTransfers) Create(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES (:id, :kind, :from_account, :to_account, :quantity, :memo, :status, :attempts, :last_error, :created_at, :sent_at)
	`
	_, err := r.tx.NamedExecContext(ctx, query, newTransferRow(transfer))
	return dbError(err, "не удалось создать перевод")
}

func (r pgTransfers) Update(ctx context.Context, transfer *entity.Transfer) error {
	row := newTransferRow(transfer)
	err := common.ExecAffected(ctx, r.tx, errTransferMissing, `
		UPDATE transfers SET status = $2, attempts = $3, last_error = $4, sent_at = $5 WHERE id = $1
	`, row.ID, row.Status, row.Attempts, row.LastError, row.SentAt)
	return dbError(err, "не удалось обновить перевод")
}

func (r pgTransfers) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transfer, error) {
	row, err := common.GetOne[transferRow](ctx, r.tx, errTransferMissing, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
	if err != nil {
		return nil, dbError(err, "не удалось получить перевод")
	}
	return row.toEntity()
}

func (r pgTransfers) FindPending(ctx context.Context, limit int) ([]*entity.Transfer, error) {
	rows, err := common.SelectAll[transferRow](ctx, r.tx,
		`SELECT `+transferColumns+` FROM transfers WHERE status = 'pending' ORDER BY created_at LIMIT $1`, limit)
	if err != nil {
		return nil, dbError(err, "не удалось получить переводы")
	}
	return transfersFromRows(rows)
}

func (r pgTransfers) FindByAccount(ctx context.Context, account string) ([]*entity.Transfer, error) {
	rows, err := common.SelectAll[transferRow](ctx, r.tx,
		`SELECT `+transferColumns+` FROM transfers WHERE to_account = $1 ORDER BY created_at`, account)
	if err != nil {
		return nil, dbError(err, "не удалось получить переводы")
	}
	return transfersFromRows(rows)
}

func transfersFromRows(rows []transferRow) ([]*entity.Transfer, error) {
	transfers := make([]*entity.Transfer, 0, len(rows))
	for _, row := range rows {
		t, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

type pgPrincipals struct{ tx *sqlx.Tx }

func (r pgPrincipals) Create(ctx context.Context, principal *entity.Principal) error {
	res, err := r.tx.ExecContext(ctx, `
		INSERT INTO principals (name, password_hash, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`, principal.Name, principal.PasswordHash, principal.CreatedAt)
	if err != nil {
		return dbError(err, "не удалось создать аккаунт")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return apperror.ErrPrincipalExists
	}
	return nil
}

func (r pgPrincipals) FindByName(ctx context.Context, name string) (*entity.Principal, error) {
	row, err := common.GetOne[principalRow](ctx, r.tx, apperror.ErrPrincipalNotFound,
		`SELECT name, password_hash, created_at FROM principals WHERE name = $1`, name)
	if err != nil {
		return nil, dbError(err, "не удалось получить аккаунт")
	}
	return &entity.Principal{Name: row.Name, PasswordHash: row.PasswordHash, CreatedAt: row.CreatedAt.UTC()}, nil
}

func (r pgPrincipals) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM principals WHERE name = $1)`, name); err != nil {
		return false, dbError(err, "не удалось проверить аккаунт")
	}
	return exists, nil
}
