package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/keeperpass/internal/models"
	"github.com/atinyakov/keeperpass/internal/repository"
)

func init() {
	PassphraseHashCost = bcrypt.MinCost
}

// memRepo keeps passphrases in memory, mirroring the supersede semantics of
// the Postgres repository.
type memRepo struct {
	rows       []models.Passphrase
	replaceErr error
	currentErr error
}

func (m *memRepo) ReplacePassphrase(_ context.Context, p models.Passphrase) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	for i := range m.rows {
		if m.rows[i].UserLogin == p.UserLogin {
			m.rows[i].Superseded = true
		}
	}
	m.rows = append(m.rows, p)
	return nil
}

func (m *memRepo) CurrentPassphrase(_ context.Context, login string) (*models.Passphrase, error) {
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	for i := range m.rows {
		if m.rows[i].UserLogin == login && !m.rows[i].Superseded {
			p := m.rows[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) HasPassphrase(ctx context.Context, login string) (bool, error) {
	_, err := m.CurrentPassphrase(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func newTestService(repo *memRepo) *PassphraseService {
	svc := NewPassphraseService(repo)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	n := 0
	svc.newID = func() string {
		n++
		return strings.Repeat("a", n)
	}
	return svc
}

func TestSetPassphrase_StoresHash(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo)

	if err := svc.SetPassphrase(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("SetPassphrase returned error: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("stored %d rows; want 1", len(repo.rows))
	}
	row := repo.rows[0]
	if row.ID != "a" || row.UserLogin != "alice" || row.CreatedAt != 1700000000 {
		t.Errorf("unexpected row %+v", row)
	}
	if string(row.Hash) == "hunter2" {
		t.Error("passphrase stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword(row.Hash, []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not match: %v", err)
	}
}

func TestSetPassphrase_Rejects(t *testing.T) {
	svc := newTestService(&memRepo{})

	if err := svc.SetPassphrase(context.Background(), "alice", ""); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("empty: error = %v; want ErrEmptyPassphrase", err)
	}
	long := strings.Repeat("x", models.MaxPassphraseBytes+1)
	if err := svc.SetPassphrase(context.Background(), "alice", long); !errors.Is(err, ErrPassphraseTooLong) {
		t.Errorf("long: error = %v; want ErrPassphraseTooLong", err)
	}
}

func TestSetPassphrase_RepoError(t *testing.T) {
	dbErr := errors.New("db down")
	svc := newTestService(&memRepo{replaceErr: dbErr})

	err := svc.SetPassphrase(context.Background(), "alice", "hunter2")
	if !errors.Is(err, dbErr) {
		t.Fatalf("error = %v; want wrapped %v", err, dbErr)
	}
}

func TestVerifyPassphrase(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.VerifyPassphrase(ctx, "alice", "first"); !errors.Is(err, ErrNoPassphrase) {
		t.Fatalf("before set: error = %v; want ErrNoPassphrase", err)
	}

	if err := svc.SetPassphrase(ctx, "alice", "first"); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetPassphrase(ctx, "alice", "second"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		passphrase string
		wantErr    error
	}{
		{"current", "second", nil},
		{"superseded", "first", ErrPassphraseMismatch},
		{"wrong", "third", ErrPassphraseMismatch},
		{"empty", "", ErrEmptyPassphrase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.VerifyPassphrase(ctx, "alice", tt.passphrase)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyPassphrase(%q) = %v; want %v", tt.passphrase, err, tt.wantErr)
			}
		})
	}

	if len(repo.rows) != 2 || !repo.rows[0].Superseded || repo.rows[1].Superseded {
		t.Errorf("unexpected history %+v", repo.rows)
	}
}

func TestVerifyPassphrase_RepoError(t *testing.T) {
	dbErr := errors.New("db down")
	svc := newTestService(&memRepo{currentErr: dbErr})

	err := svc.VerifyPassphrase(context.Background(), "alice", "x")
	if !errors.Is(err, dbErr) {
		t.Fatalf("error = %v; want wrapped %v", err, dbErr)
	}
}

func TestHasPassphrase(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	has, err := svc.HasPassphrase(ctx, "alice")
	if err != nil || has {
		t.Fatalf("HasPassphrase = %v, %v; want false, nil", has, err)
	}
	if err := svc.SetPassphrase(ctx, "alice", "x"); err != nil {
		t.Fatal(err)
	}
	has, err = svc.HasPassphrase(ctx, "alice")
	if err != nil || !has {
		t.Fatalf("HasPassphrase = %v, %v; want true, nil", has, err)
	}
}
