package fakecredentialstore

import (
	"sync"

	"github.com/jrsteele09/go-login-manager/credentials"
)

var _ credentials.Store = (*FakeCredentialStore)(nil)

// FakeCredentialStore is an in-memory credentials.Store for tests. It
// records how often each operation was invoked and can be primed with a
// stored record or forced to fail.
type FakeCredentialStore struct {
	stored     credentials.Credentials
	saveErr    error
	clearErr   error
	loadCalls  int
	saveCalls  int
	clearCalls int
	lock       sync.RWMutex
}

func NewFakeCredentialStore() *FakeCredentialStore {
	return &FakeCredentialStore{}
}

func (cs *FakeCredentialStore) Load() credentials.Credentials {
	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.loadCalls++
	return cs.stored
}

func (cs *FakeCredentialStore) Save(creds credentials.Credentials) error {
	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.saveCalls++
	if cs.saveErr != nil {
		return cs.saveErr
	}
	cs.stored = creds
	return nil
}

func (cs *FakeCredentialStore) Clear() error {
	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.clearCalls++
	if cs.clearErr != nil {
		return cs.clearErr
	}
	cs.stored = credentials.Credentials{}
	return nil
}

// SetStored primes the record returned by subsequent Load calls.
func (cs *FakeCredentialStore) SetStored(creds credentials.Credentials) {
	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.stored = creds
}

// Stored returns the record currently held by the fake.
func (cs *FakeCredentialStore) Stored() credentials.Credentials {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.stored
}

// FailSave makes subsequent Save calls return err without mutating state.
func (cs *FakeCredentialStore) FailSave(err error) {
	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.saveErr = err
}

// FailClear makes subsequent Clear calls return err without mutating state.
func (cs *FakeCredentialStore) FailClear(err error) {
	cs.lock.Lock()
	defer cs.lock.Unlock()
	cs.clearErr = err
}

func (cs *FakeCredentialStore) LoadCalls() int {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.loadCalls
}

func (cs *FakeCredentialStore) SaveCalls() int {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.saveCalls
}

func (cs *FakeCredentialStore) ClearCalls() int {
	cs.lock.RLock()
	defer cs.lock.RUnlock()
	return cs.clearCalls
}
