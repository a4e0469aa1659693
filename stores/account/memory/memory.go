package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/utxoledger/errors"
	"github.com/bsv-blockchain/utxoledger/model"
)

type Memory struct {
	mu      sync.RWMutex
	byKeyID map[model.KeyID]*model.Account
	byRegID map[model.RegID]model.KeyID
}

func New() *Memory {
	return &Memory{
		byKeyID: make(map[model.KeyID]*model.Account),
		byRegID: make(map[model.RegID]model.KeyID),
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return http.StatusOK, fmt.Sprintf("Memory account store available, %d accounts", len(m.byKeyID)), nil
}

func (m *Memory) Get(_ context.Context, uid model.UserID) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		keyID model.KeyID
		ok    bool
	)

	switch uid.Type() {
	case model.UserIDRegID:
		regID, _ := uid.RegID()
		keyID, ok = m.byRegID[regID]
	case model.UserIDKeyID:
		keyID, ok = uid.KeyID()
	case model.UserIDPubKey:
		pubKey, _ := uid.PubKey()
		keyID, ok = model.KeyIDFromPubKey(pubKey), true
	}

	if !ok {
		return nil, errors.NewAccountNotFoundError("account %s not found", uid)
	}

	acct, found := m.byKeyID[keyID]
	if !found {
		return nil, errors.NewAccountNotFoundError("account %s not found", uid)
	}

	return acct.Clone(), nil
}

func (m *Memory) Save(_ context.Context, acct *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if acct.IsRegistered() {
		if bound, ok := m.byRegID[acct.RegID]; ok && bound != acct.KeyID {
			return errors.NewAccountError("regid %s already bound to %s", acct.RegID, bound)
		}
	}

	if prev, ok := m.byKeyID[acct.KeyID]; ok && prev.IsRegistered() && prev.RegID != acct.RegID {
		delete(m.byRegID, prev.RegID)
	}

	m.byKeyID[acct.KeyID] = acct.Clone()

	if acct.IsRegistered() {
		m.byRegID[acct.RegID] = acct.KeyID
	}

	return nil
}
