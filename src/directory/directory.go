// Package directory serves the bank directory and the caller's linked
// accounts, both owned by the upstream and cached transiently here. A fetch
// that is already in flight for the same key is never duplicated.
package directory

import (
	"context"
	"strconv"
	"time"

	"etax-gateway/src/cache"
	"etax-gateway/src/models"

	"golang.org/x/sync/singleflight"
)

const banksCacheKey = "banks"

type coreClient interface {
	ListBanks(ctx context.Context, token string) ([]models.Bank, error)
	ListLinkedAccounts(ctx context.Context, token string) ([]models.LinkedAccount, error)
}

type Provider struct {
	core  coreClient
	group singleflight.Group
	ttl   time.Duration
}

func NewProvider(core coreClient) *Provider {
	return &Provider{
		core: core,
		ttl:  5 * time.Minute,
	}
}

// Banks returns the bank directory, from cache when possible. The directory
// is the same for every user, so it is cached under a single key.
func (p *Provider) Banks(ctx context.Context, token string) ([]models.Bank, error) {
	if value, found := cache.Cache.Get(banksCacheKey); found {
		if banks, ok := value.([]models.Bank); ok {
			return banks, nil
		}
	}

	value, err, _ := p.group.Do(banksCacheKey, func() (interface{}, error) {
		// Waiters share this fetch; the first caller disconnecting must
		// not cancel it for everyone parked on the same key.
		banks, err := p.core.ListBanks(context.WithoutCancel(ctx), token)
		if err != nil {
			return nil, err
		}
		cache.SetDirectoryCache(banksCacheKey, banks, p.ttl)
		return banks, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Bank), nil
}

func (p *Provider) LinkedAccounts(ctx context.Context, token string, userID int64) ([]models.LinkedAccount, error) {
	key := linkedAccountsCacheKey(userID)

	if value, found := cache.Cache.Get(key); found {
		if accounts, ok := value.([]models.LinkedAccount); ok {
			return accounts, nil
		}
	}

	value, err, _ := p.group.Do(key, func() (interface{}, error) {
		accounts, err := p.core.ListLinkedAccounts(context.WithoutCancel(ctx), token)
		if err != nil {
			return nil, err
		}
		cache.SetLinkedAccountCache(key, accounts, p.ttl)
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.LinkedAccount), nil
}

// InvalidateLinkedAccounts drops the cached list so the next read refetches.
// Called only after a successful link submission has been observed.
func (p *Provider) InvalidateLinkedAccounts(userID int64) {
	cache.DelLinkedAccountCache(linkedAccountsCacheKey(userID))
}

func linkedAccountsCacheKey(userID int64) string {
	return "linked_accounts:" + strconv.FormatInt(userID, 10)
}

// Partition splits the directory into recommended and other banks. Display
// grouping only; selection and validation ignore the split.
func Partition(banks []models.Bank) (recommended, other []models.Bank) {
	for _, bank := range banks {
		if bank.Recommended {
			recommended = append(recommended, bank)
		} else {
			other = append(other, bank)
		}
	}
	return recommended, other
}

// Contains reports whether the directory still lists the given bank id.
func Contains(banks []models.Bank, bankID string) bool {
	for _, bank := range banks {
		if bank.ID == bankID {
			return true
		}
	}
	return false
}
