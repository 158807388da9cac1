package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/pkg/apperror"
)

func newDailyFixture(t *testing.T, fetcher VerseFetcher) (*memStore, DailyService) {
	t.Helper()
	st := newMemStore()
	rewards := NewRewardService(&fakeRewardRepo{st}, testLogger())
	svc := NewDailyService(&fakeDailyRepo{st}, rewards, fetcher, nil, testLogger())
	return st, svc
}

func todayQuiz(st *memStore, correctIndex int) *model.DailyQuiz {
	quiz := &model.DailyQuiz{
		DayKey:       DayKey(time.Now()),
		Question:     "Who built the ark?",
		Options:      []string{"Moses", "Noah", "David"},
		CorrectIndex: correctIndex,
	}
	st.quizzes[quiz.DayKey] = quiz
	return quiz
}

func TestGetQuizNotFound(t *testing.T) {
	_, svc := newDailyFixture(t, &stubVerseFetcher{})

	_, err := svc.GetQuiz(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetQuizHidesCorrectIndex(t *testing.T) {
	st, svc := newDailyFixture(t, &stubVerseFetcher{})
	todayQuiz(st, 1)

	public, err := svc.GetQuiz(context.Background())
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if public.Question == "" || len(public.Options) != 3 {
		t.Fatalf("public quiz = %+v", public)
	}
}

func TestSubmitQuizAnswer(t *testing.T) {
	st, svc := newDailyFixture(t, &stubVerseFetcher{})
	user := st.addUser("Gil", "gil@example.com", model.RoleMember, 0)
	todayQuiz(st, 1)

	// Wrong answer: no points, no ledger event, retry allowed.
	res, err := svc.SubmitQuizAnswer(context.Background(), user.ID, 0)
	if err != nil {
		t.Fatalf("wrong answer: %v", err)
	}
	if res.Correct || res.PointsAdded != 0 {
		t.Fatalf("wrong answer res = %+v", res)
	}
	if len(st.events) != 0 {
		t.Fatal("wrong answer recorded a ledger event")
	}

	// Correct answer after a wrong one still earns the day's points.
	res, err = svc.SubmitQuizAnswer(context.Background(), user.ID, 1)
	if err != nil {
		t.Fatalf("correct answer: %v", err)
	}
	if !res.Correct || res.PointsAdded != PointsQuiz || res.NewBalance != PointsQuiz {
		t.Fatalf("correct answer res = %+v, want +20", res)
	}

	// A repeat correct answer surfaces as "already answered", not a fresh result.
	_, err = svc.SubmitQuizAnswer(context.Background(), user.ID, 1)
	if !errors.Is(err, apperror.ErrAlreadyAnswered) {
		t.Fatalf("repeat err = %v, want ErrAlreadyAnswered", err)
	}
	if st.users[user.ID].Points != PointsQuiz {
		t.Fatalf("balance = %d, want %d", st.users[user.ID].Points, PointsQuiz)
	}

	_, err = svc.SubmitQuizAnswer(context.Background(), user.ID, 0)
	if err != nil {
		t.Fatalf("wrong answer after correct: %v", err)
	}
}

func TestSubmitQuizNoQuizToday(t *testing.T) {
	st, svc := newDailyFixture(t, &stubVerseFetcher{})
	user := st.addUser("Hana", "hana@example.com", model.RoleMember, 0)

	_, err := svc.SubmitQuizAnswer(context.Background(), user.ID, 0)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	_, svc := newDailyFixture(t, &stubVerseFetcher{})

	cases := []struct {
		name  string
		input CreateQuizInput
	}{
		{"one option", CreateQuizInput{Question: "?", Options: []string{"a"}, CorrectIndex: 0}},
		{"index too high", CreateQuizInput{Question: "?", Options: []string{"a", "b"}, CorrectIndex: 2}},
		{"negative index", CreateQuizInput{Question: "?", Options: []string{"a", "b"}, CorrectIndex: -1}},
		{"bad day key", CreateQuizInput{Question: "?", Options: []string{"a", "b"}, CorrectIndex: 0, DayKey: "tomorrow"}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateQuiz(context.Background(), tc.input); !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestCreateQuizDuplicateDay(t *testing.T) {
	_, svc := newDailyFixture(t, &stubVerseFetcher{})

	input := CreateQuizInput{Question: "?", Options: []string{"a", "b"}, CorrectIndex: 0, DayKey: "2026-09-01"}
	if _, err := svc.CreateQuiz(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateQuiz(context.Background(), input); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("duplicate create err = %v, want ErrInvalidInput", err)
	}
}

func TestGetVerseFetchesOnceThenServesCache(t *testing.T) {
	fetcher := &stubVerseFetcher{verse: &model.DailyVerse{
		Text:      "The Lord is my shepherd.",
		Reference: "Psalm 23:1",
		Version:   "WEB",
	}}
	_, svc := newDailyFixture(t, fetcher)

	first, err := svc.GetVerse(context.Background())
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	if first.Reference != "Psalm 23:1" {
		t.Fatalf("verse = %+v", first)
	}

	second, err := svc.GetVerse(context.Background())
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.Reference != first.Reference {
		t.Fatalf("second verse = %+v", second)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher calls = %d, want 1", fetcher.calls)
	}
}

func TestGetVerseFallbackOnFetchFailure(t *testing.T) {
	fetcher := &stubVerseFetcher{err: errors.New("provider down")}
	_, svc := newDailyFixture(t, fetcher)

	verse, err := svc.GetVerse(context.Background())
	if err != nil {
		t.Fatalf("get verse must not fail on provider outage: %v", err)
	}
	if verse.Reference != fallbackVerse.Reference || verse.Text == "" {
		t.Fatalf("fallback verse = %+v", verse)
	}
}
