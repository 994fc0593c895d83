package persistence

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ignatzorin/arbitration-backend/internal/db"
	"github.com/ignatzorin/arbitration-backend/internal/domain/entity"
	"github.com/ignatzorin/arbitration-backend/internal/domain/repository"
	"github.com/ignatzorin/arbitration-backend/internal/domain/valueobject"
	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

var (
	bucketConfig      = []byte("config")
	bucketAccounts    = []byte("accounts")
	bucketCases       = []byte("cases")
	bucketClaims      = []byte("claims")
	bucketClaimSeq    = []byte("claim_ids")
	bucketOffers      = []byte("offers")
	bucketArbitrators = []byte("arbitrators")
	bucketNominees    = []byte("nominees")
	bucketElections   = []byte("elections")
	bucketTransfers   = []byte("transfers")
	bucketPrincipals  = []byte("principals")

	configKey = []byte("config")
)

var allBuckets = [][]byte{
	bucketConfig, bucketAccounts, bucketCases, bucketClaims, bucketClaimSeq, bucketOffers,
	bucketArbitrators, bucketNominees, bucketElections, bucketTransfers, bucketPrincipals,
}

// BoltStore хранит состояние арбитража в одном файле bbolt.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string, options *bolt.Options) (*BoltStore, error) {
	conn, err := db.OpenBolt(path, options)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось открыть bbolt")
	}
	if err := conn.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = conn.Close()
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать bucket'ы")
	}
	return &BoltStore{db: conn}, nil
}

func (s *BoltStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.db.Update(func(btx *bolt.Tx) error {
		return fn(ctx, &boltTx{tx: btx})
	})
}

func (s *BoltStore) View(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.db.View(func(btx *bolt.Tx) error {
		return fn(ctx, &boltTx{tx: btx})
	})
}

func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) Config() repository.ConfigRepository         { return boltConfig{t.tx} }
func (t *boltTx) Accounts() repository.AccountRepository       { return boltAccounts{t.tx} }
func (t *boltTx) Cases() repository.CaseRepository             { return boltCases{t.tx} }
func (t *boltTx) Claims() repository.ClaimRepository           { return boltClaims{t.tx} }
func (t *boltTx) Offers() repository.OfferRepository           { return boltOffers{t.tx} }
func (t *boltTx) Arbitrators() repository.ArbitratorRepository { return boltArbitrators{t.tx} }
func (t *boltTx) Nominees() repository.NomineeRepository       { return boltNominees{t.tx} }
func (t *boltTx) Elections() repository.ElectionRepository     { return boltElections{t.tx} }
func (t *boltTx) Transfers() repository.TransferRepository     { return boltTransfers{t.tx} }
func (t *boltTx) Principals() repository.PrincipalRepository   { return boltPrincipals{t.tx} }

func idKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

func claimKey(caseID, claimID uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key, caseID)
	binary.BigEndian.PutUint64(key[8:], claimID)
	return key
}

// nextID выдаёт идентификаторы с нуля.
func nextID(b *bolt.Bucket) (uint64, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить идентификатор")
	}
	return seq - 1, nil
}

func getJSON[T any](b *bolt.Bucket, key []byte, notFound error) (*T, error) {
	raw := b.Get(key)
	if raw == nil {
		return nil, notFound
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждённая запись")
	}
	return &v, nil
}

func putJSON(b *bolt.Bucket, key []byte, v interface{}) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запись")
	}
	if err := b.Put(key, encoded); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить запись")
	}
	return nil
}

func deleteKey(b *bolt.Bucket, key []byte) error {
	if err := b.Delete(key); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить запись")
	}
	return nil
}

func listJSON[T any](b *bolt.Bucket, prefix []byte, keep func(*T) bool) ([]*T, error) {
	out := make([]*T, 0)
	c := b.Cursor()
	var k, raw []byte
	if prefix == nil {
		k, raw = c.First()
	} else {
		k, raw = c.Seek(prefix)
	}
	for ; k != nil && bytes.HasPrefix(k, prefix); k, raw = c.Next() {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "повреждённая запись")
		}
		if keep == nil || keep(&v) {
			out = append(out, &v)
		}
	}
	return out, nil
}

func insertJSON(b *bolt.Bucket, key []byte, v interface{}, duplicate error) error {
	if b.Get(key) != nil {
		return duplicate
	}
	return putJSON(b, key, v)
}

func updateJSON(b *bolt.Bucket, key []byte, v interface{}, notFound error) error {
	if b.Get(key) == nil {
		return notFound
	}
	return putJSON(b, key, v)
}

type boltConfig struct{ tx *bolt.Tx }

func (r boltConfig) Get(_ context.Context) (*entity.Config, error) {
	return getJSON[entity.Config](r.tx.Bucket(bucketConfig), configKey, apperror.ErrNotInitialized)
}

func (r boltConfig) Save(_ context.Context, config *entity.Config) error {
	return putJSON(r.tx.Bucket(bucketConfig), configKey, config)
}

type boltAccounts struct{ tx *bolt.Tx }

func (r boltAccounts) FindByOwner(_ context.Context, owner string) (*entity.Account, error) {
	return getJSON[entity.Account](r.tx.Bucket(bucketAccounts), []byte(owner), nil)
}

func (r boltAccounts) Save(_ context.Context, account *entity.Account) error {
	return putJSON(r.tx.Bucket(bucketAccounts), []byte(account.Owner), account)
}

func (r boltAccounts) Delete(_ context.Context, owner string) error {
	return deleteKey(r.tx.Bucket(bucketAccounts), []byte(owner))
}

type boltCases struct{ tx *bolt.Tx }

func (r boltCases) NextID(_ context.Context) (uint64, error) {
	return nextID(r.tx.Bucket(bucketCases))
}

func (r boltCases) Create(_ context.Context, cf *entity.CaseFile) error {
	return insertJSON(r.tx.Bucket(bucketCases), idKey(cf.ID), cf, apperror.New(apperror.ErrCodeDuplicate, "дело уже существует"))
}

func (r boltCases) Update(_ context.Context, cf *entity.CaseFile) error {
	return updateJSON(r.tx.Bucket(bucketCases), idKey(cf.ID), cf, apperror.ErrCaseNotFound)
}

func (r boltCases) Delete(_ context.Context, id uint64) error {
	return deleteKey(r.tx.Bucket(bucketCases), idKey(id))
}

func (r boltCases) FindByID(_ context.Context, id uint64) (*entity.CaseFile, error) {
	return getJSON[entity.CaseFile](r.tx.Bucket(bucketCases), idKey(id), apperror.ErrCaseNotFound)
}

func (r boltCases) List(_ context.Context, filter repository.CaseFilter) ([]*entity.CaseFile, error) {
	cases, err := listJSON(r.tx.Bucket(bucketCases), nil, func(cf *entity.CaseFile) bool {
		if filter.Claimant != "" && cf.Claimant != filter.Claimant {
			return false
		}
		if filter.Respondant != "" && cf.Respondant != filter.Respondant {
			return false
		}
		return filter.Status == nil || cf.Status == *filter.Status
	})
	if err != nil {
		return nil, err
	}
	return paginate(cases, filter.Limit, filter.Offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Иски хранятся под ключом caseID|claimID, счётчик общий для всех дел.
type boltClaims struct{ tx *bolt.Tx }

func (r boltClaims) NextID(_ context.Context) (uint64, error) {
	return nextID(r.tx.Bucket(bucketClaimSeq))
}

func (r boltClaims) Create(_ context.Context, claim *entity.Claim) error {
	return insertJSON(r.tx.Bucket(bucketClaims), claimKey(claim.CaseID, claim.ID), claim, apperror.New(apperror.ErrCodeDuplicate, "иск уже существует"))
}

func (r boltClaims) Update(_ context.Context, claim *entity.Claim) error {
	return updateJSON(r.tx.Bucket(bucketClaims), claimKey(claim.CaseID, claim.ID), claim, apperror.ErrClaimNotFound)
}

func (r boltClaims) Delete(_ context.Context, caseID, id uint64) error {
	return deleteKey(r.tx.Bucket(bucketClaims), claimKey(caseID, id))
}

func (r boltClaims) DeleteByCaseID(ctx context.Context, caseID uint64) error {
	claims, err := r.FindByCaseID(ctx, caseID)
	if err != nil {
		return err
	}
	for _, claim := range claims {
		if err := r.Delete(ctx, caseID, claim.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r boltClaims) FindByID(_ context.Context, caseID, id uint64) (*entity.Claim, error) {
	return getJSON[entity.Claim](r.tx.Bucket(bucketClaims), claimKey(caseID, id), apperror.ErrClaimNotFound)
}

func (r boltClaims) FindByCaseID(_ context.Context, caseID uint64) ([]*entity.Claim, error) {
	return listJSON[entity.Claim](r.tx.Bucket(bucketClaims), idKey(caseID), nil)
}

type boltOffers struct{ tx *bolt.Tx }

func (r boltOffers) NextID(_ context.Context) (uint64, error) {
	return nextID(r.tx.Bucket(bucketOffers))
}

func (r boltOffers) Create(_ context.Context, offer *entity.Offer) error {
	return insertJSON(r.tx.Bucket(bucketOffers), idKey(offer.ID), offer, apperror.New(apperror.ErrCodeDuplicate, "предложение уже существует"))
}

func (r boltOffers) Update(_ context.Context, offer *entity.Offer) error {
	return updateJSON(r.tx.Bucket(bucketOffers), idKey(offer.ID), offer, apperror.ErrOfferNotFound)
}

func (r boltOffers) FindByID(_ context.Context, id uint64) (*entity.Offer, error) {
	return getJSON[entity.Offer](r.tx.Bucket(bucketOffers), idKey(id), apperror.ErrOfferNotFound)
}

func (r boltOffers) FindByCaseID(_ context.Context, caseID uint64) ([]*entity.Offer, error) {
	return listJSON(r.tx.Bucket(bucketOffers), nil, func(o *entity.Offer) bool {
		return o.CaseID == caseID
	})
}

type boltArbitrators struct{ tx *bolt.Tx }

func (r boltArbitrators) FindByName(_ context.Context, name string) (*entity.Arbitrator, error) {
	return getJSON[entity.Arbitrator](r.tx.Bucket(bucketArbitrators), []byte(name), apperror.ErrArbitratorNotFound)
}

func (r boltArbitrators) Save(_ context.Context, arb *entity.Arbitrator) error {
	return putJSON(r.tx.Bucket(bucketArbitrators), []byte(arb.Name), arb)
}

func (r boltArbitrators) List(_ context.Context) ([]*entity.Arbitrator, error) {
	return listJSON[entity.Arbitrator](r.tx.Bucket(bucketArbitrators), nil, nil)
}

type boltNominees struct{ tx *bolt.Tx }

func (r boltNominees) FindByName(_ context.Context, name string) (*entity.Nominee, error) {
	return getJSON[entity.Nominee](r.tx.Bucket(bucketNominees), []byte(name), apperror.ErrNomineeNotFound)
}

func (r boltNominees) Save(_ context.Context, nominee *entity.Nominee) error {
	return putJSON(r.tx.Bucket(bucketNominees), []byte(nominee.Name), nominee)
}

func (r boltNominees) Delete(_ context.Context, name string) error {
	return deleteKey(r.tx.Bucket(bucketNominees), []byte(name))
}

func (r boltNominees) List(_ context.Context) ([]*entity.Nominee, error) {
	return listJSON[entity.Nominee](r.tx.Bucket(bucketNominees), nil, nil)
}

type boltElections struct{ tx *bolt.Tx }

func (r boltElections) NextID(_ context.Context) (uint64, error) {
	return nextID(r.tx.Bucket(bucketElections))
}

func (r boltElections) Create(_ context.Context, election *entity.Election) error {
	return insertJSON(r.tx.Bucket(bucketElections), idKey(election.ID), election, apperror.New(apperror.ErrCodeDuplicate, "выборы уже существуют"))
}

func (r boltElections) Update(_ context.Context, election *entity.Election) error {
	return updateJSON(r.tx.Bucket(bucketElections), idKey(election.ID), election, apperror.ErrElectionNotFound)
}

func (r boltElections) FindByID(_ context.Context, id uint64) (*entity.Election, error) {
	return getJSON[entity.Election](r.tx.Bucket(bucketElections), idKey(id), apperror.ErrElectionNotFound)
}

func (r boltElections) FindByBallotName(_ context.Context, ballotName string) (*entity.Election, error) {
	elections, err := listJSON(r.tx.Bucket(bucketElections), nil, func(e *entity.Election) bool {
		return e.BallotName == ballotName
	})
	if err != nil || len(elections) == 0 {
		return nil, err
	}
	return elections[0], nil
}

func (r boltElections) List(_ context.Context) ([]*entity.Election, error) {
	return listJSON[entity.Election](r.tx.Bucket(bucketElections), nil, nil)
}

type boltTransfers struct{ tx *bolt.Tx }

var errTransferNotFound = apperror.New(apperror.ErrCodeNotFound, "перевод не найден")

func (r boltTransfers) Create(_ context.Context, transfer *entity.Transfer) error {
	return insertJSON(r.tx.Bucket(bucketTransfers), transfer.ID[:], transfer, apperror.New(apperror.ErrCodeDuplicate, "перевод уже существует"))
}

func (r boltTransfers) Update(_ context.Context, transfer *entity.Transfer) error {
	return updateJSON(r.tx.Bucket(bucketTransfers), transfer.ID[:], transfer, errTransferNotFound)
}

func (r boltTransfers) FindByID(_ context.Context, id uuid.UUID) (*entity.Transfer, error) {
	return getJSON[entity.Transfer](r.tx.Bucket(bucketTransfers), id[:], errTransferNotFound)
}

func (r boltTransfers) FindPending(_ context.Context, limit int) ([]*entity.Transfer, error) {
	transfers, err := listJSON(r.tx.Bucket(bucketTransfers), nil, func(t *entity.Transfer) bool {
		return t.Status == valueobject.TransferStatusPending
	})
	if err != nil {
		return nil, err
	}
	sortTransfers(transfers)
	return paginate(transfers, limit, 0), nil
}

func (r boltTransfers) FindByAccount(_ context.Context, account string) ([]*entity.Transfer, error) {
	transfers, err := listJSON(r.tx.Bucket(bucketTransfers), nil, func(t *entity.Transfer) bool {
		return t.To == account
	})
	if err != nil {
		return nil, err
	}
	sortTransfers(transfers)
	return transfers, nil
}

func sortTransfers(transfers []*entity.Transfer) {
	sort.SliceStable(transfers, func(i, j int) bool {
		return transfers[i].CreatedAt.Before(transfers[j].CreatedAt)
	})
}

type boltPrincipals struct{ tx *bolt.Tx }

func (r boltPrincipals) Create(_ context.Context, principal *entity.Principal) error {
	return insertJSON(r.tx.Bucket(bucketPrincipals), []byte(principal.Name), principal, apperror.ErrPrincipalExists)
}

func (r boltPrincipals) FindByName(_ context.Context, name string) (*entity.Principal, error) {
	return getJSON[entity.Principal](r.tx.Bucket(bucketPrincipals), []byte(name), apperror.ErrPrincipalNotFound)
}

func (r boltPrincipals) Exists(_ context.Context, name string) (bool, error) {
	return r.tx.Bucket(bucketPrincipals).Get([]byte(name)) != nil, nil
}
