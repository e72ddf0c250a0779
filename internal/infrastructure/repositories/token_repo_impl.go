package repositories

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/infrastructure/models"
	"bridge-kita.backend/pkg/utils"
)

// TokenRepository implements the token whitelist over gorm.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// GetBySymbol gets a token by symbol on a chain.
func (r *TokenRepository) GetBySymbol(ctx context.Context, chainID entities.ChainID, symbol string) (*entities.Token, error) {
	var m models.Token
	if err := r.db.WithContext(ctx).
		Where("chain_id = ? AND symbol = ? AND is_active = ?", string(chainID), symbol, true).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByAddress gets a token by contract address on a chain.
func (r *TokenRepository) GetByAddress(ctx context.Context, chainID entities.ChainID, address string) (*entities.Token, error) {
	var m models.Token
	if err := r.db.WithContext(ctx).
		Where("chain_id = ? AND address = ?", string(chainID), address).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByChain gets the active tokens on a chain ordered by symbol.
func (r *TokenRepository) ListByChain(ctx context.Context, chainID entities.ChainID) ([]*entities.Token, error) {
	var ms []models.Token
	if err := r.db.WithContext(ctx).
		Where("chain_id = ? AND is_active = ?", string(chainID), true).
		Order("symbol").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	tokens := make([]*entities.Token, 0, len(ms))
	for i := range ms {
		tokens = append(tokens, r.toEntity(&ms[i]))
	}
	return tokens, nil
}

// Upsert inserts or refreshes a token row keyed by (chain, symbol).
func (r *TokenRepository) Upsert(ctx context.Context, token *entities.Token) error {
	m := r.toModel(token)
	// Insert always carries a fresh id so a caller-supplied stale id never
	// collides on the primary key; on a (chain_id, symbol) conflict the
	// existing row keeps its id because id is not an update column.
	m.ID = utils.GenerateUUIDv7()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chain_id"}, {Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "decimals", "address", "is_native", "issuing_chain_id", "is_active", "updated_at"}),
		}).
		Create(m).Error
}

func (r *TokenRepository) toEntity(m *models.Token) *entities.Token {
	e := &entities.Token{
		ID:        m.ID,
		ChainID:   entities.ChainID(m.ChainID),
		Symbol:    m.Symbol,
		Name:      m.Name,
		Address:   m.Address,
		IsNative:  m.IsNative,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
	if m.Decimals != nil {
		e.Decimals = null.IntFrom(*m.Decimals)
	}
	e.IssuingChainID = null.StringFromPtr(m.IssuingChainID)
	return e
}

func (r *TokenRepository) toModel(e *entities.Token) *models.Token {
	m := &models.Token{
		ID:       e.ID,
		ChainID:  string(e.ChainID),
		Symbol:   e.Symbol,
		Name:     e.Name,
		Address:  e.Address,
		IsNative: e.IsNative,
		IsActive: e.IsActive,
	}
	if e.Decimals.Valid {
		d := e.Decimals.Int
		m.Decimals = &d
	}
	m.IssuingChainID = e.IssuingChainID.Ptr()
	return m
}
