package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/pkg/apperror"
)

func newAttendanceFixture(t *testing.T) (*memStore, *model.User, AttendanceService) {
	t.Helper()
	st := newMemStore()
	user := st.addUser("Finn", "finn@example.com", model.RoleMember, 0)
	rewards := NewRewardService(&fakeRewardRepo{st}, testLogger())
	svc := NewAttendanceService(&fakeAttendanceRepo{st}, rewards, testLogger())
	return st, user, svc
}

func TestMarkAttendanceOncePerDay(t *testing.T) {
	st, user, svc := newAttendanceFixture(t)

	res, err := svc.Mark(context.Background(), user.ID, "qr")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if res.PointsAdded != PointsAttendance || res.TotalPoints != PointsAttendance {
		t.Fatalf("mark = %+v, want +10 total 10", res)
	}

	_, err = svc.Mark(context.Background(), user.ID, "qr")
	if !errors.Is(err, apperror.ErrAlreadyMarked) {
		t.Fatalf("second mark err = %v, want ErrAlreadyMarked", err)
	}
	if st.users[user.ID].Points != PointsAttendance {
		t.Fatalf("balance changed on rejected mark: %d", st.users[user.ID].Points)
	}

	history, err := svc.History(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(history))
	}
	if history[0].Method != "qr" {
		t.Fatalf("history method = %q, want qr", history[0].Method)
	}
}

func TestMarkAttendanceConcurrent(t *testing.T) {
	st, user, svc := newAttendanceFixture(t)

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Mark(context.Background(), user.ID, "qr")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperror.ErrAlreadyMarked):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || rejected != workers-1 {
		t.Fatalf("succeeded=%d rejected=%d, want 1 and %d", succeeded, rejected, workers-1)
	}
	if st.users[user.ID].Points != PointsAttendance {
		t.Fatalf("balance = %d, want %d", st.users[user.ID].Points, PointsAttendance)
	}
}

func TestMarkAttendanceDefaultsMethod(t *testing.T) {
	_, user, svc := newAttendanceFixture(t)

	if _, err := svc.Mark(context.Background(), user.ID, ""); err != nil {
		t.Fatalf("mark: %v", err)
	}

	history, _ := svc.History(context.Background(), user.ID)
	if len(history) != 1 || history[0].Method != "qr" {
		t.Fatalf("history = %+v, want one qr row", history)
	}
}
