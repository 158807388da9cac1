package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memStore backs the in-memory fakes. One mutex guards everything so the
// reward fake mirrors the storage guarantee under test: the dedup check and
// the balance increment are a single atomic step.
type memStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*model.User
	events      []*model.RewardEvent
	dedup       map[string]bool
	attendance  []*model.Attendance
	quizzes     map[string]*model.DailyQuiz
	verses      map[string]*model.DailyVerse
	submissions []*model.Submission
	nextID      uint
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[uuid.UUID]*model.User{},
		dedup:   map[string]bool{},
		quizzes: map[string]*model.DailyQuiz{},
		verses:  map[string]*model.DailyVerse{},
	}
}

func (st *memStore) addUser(name, email, role string, points int) *model.User {
	st.mu.Lock()
	defer st.mu.Unlock()

	u := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		Role:         role,
		Points:       points,
		ReferralCode: strings.ToUpper(name[:min(4, len(name))]) + "99",
		CreatedAt:    time.Now(),
	}
	st.users[u.ID] = u
	return u
}

// --- reward repository fake ---

type fakeRewardRepo struct {
	st *memStore
}

func (r *fakeRewardRepo) Grant(ctx context.Context, event *model.RewardEvent) (*repository.GrantResult, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	user, ok := r.st.users[event.UserID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	key := event.UserID.String() + "|" + event.Kind + "|" + event.DedupKey
	if r.st.dedup[key] {
		return &repository.GrantResult{Accepted: false, NewBalance: user.Points}, nil
	}

	r.st.dedup[key] = true
	r.st.nextID++
	event.ID = r.st.nextID
	event.CreatedAt = time.Now()
	r.st.events = append(r.st.events, event)
	user.Points += event.Points

	return &repository.GrantResult{Accepted: true, NewBalance: user.Points}, nil
}

func (r *fakeRewardRepo) SumForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	sum := 0
	for _, ev := range r.st.events {
		if ev.UserID == userID {
			sum += ev.Points
		}
	}
	return sum, nil
}

func (r *fakeRewardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.RewardEvent, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var events []*model.RewardEvent
	for _, ev := range r.st.events {
		if ev.UserID == userID {
			events = append(events, ev)
		}
	}
	return events, nil
}

// --- user repository fake ---

type fakeUserRepo struct {
	st *memStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.st.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if u, ok := r.st.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.users {
		if u.Name == name {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, u := range r.st.users {
		if u.ReferralCode == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var users []*model.User
	for _, u := range r.st.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) SetRole(ctx context.Context, id uuid.UUID, role string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) Leaderboard(ctx context.Context, limit int) ([]*model.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var users []*model.User
	for _, u := range r.st.users {
		if u.Role != model.RoleAdmin {
			copied := *u
			users = append(users, &copied)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// --- attendance repository fake ---

type fakeAttendanceRepo struct {
	st *memStore
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.nextID++
	attendance.ID = r.st.nextID
	attendance.CreatedAt = time.Now()
	r.st.attendance = append(r.st.attendance, attendance)
	return nil
}

func (r *fakeAttendanceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Attendance, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var history []*model.Attendance
	for i := len(r.st.attendance) - 1; i >= 0; i-- {
		if r.st.attendance[i].UserID == userID {
			history = append(history, r.st.attendance[i])
		}
	}
	return history, nil
}

// --- daily repository fake ---

type fakeDailyRepo struct {
	st *memStore
}

func (r *fakeDailyRepo) CreateQuiz(ctx context.Context, quiz *model.DailyQuiz) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, exists := r.st.quizzes[quiz.DayKey]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.st.nextID++
	quiz.ID = r.st.nextID
	r.st.quizzes[quiz.DayKey] = quiz
	return nil
}

func (r *fakeDailyRepo) FindQuizByDay(ctx context.Context, dayKey string) (*model.DailyQuiz, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if q, ok := r.st.quizzes[dayKey]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDailyRepo) FindVerseByDay(ctx context.Context, dayKey string) (*model.DailyVerse, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if v, ok := r.st.verses[dayKey]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDailyRepo) SaveVerse(ctx context.Context, verse *model.DailyVerse) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, exists := r.st.verses[verse.DayKey]; !exists {
		r.st.verses[verse.DayKey] = verse
	}
	return nil
}

// --- submission repository fake ---

type fakeSubmissionRepo struct {
	st *memStore
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.nextID++
	submission.ID = r.st.nextID
	submission.CreatedAt = time.Now()
	r.st.submissions = append(r.st.submissions, submission)
	return nil
}

func (r *fakeSubmissionRepo) ListAll(ctx context.Context) ([]*model.Submission, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	var submissions []*model.Submission
	for i := len(r.st.submissions) - 1; i >= 0; i-- {
		submissions = append(submissions, r.st.submissions[i])
	}
	return submissions, nil
}

// --- stub verse fetcher ---

type stubVerseFetcher struct {
	verse *model.DailyVerse
	err   error
	calls int
}

func (f *stubVerseFetcher) Fetch(ctx context.Context) (*model.DailyVerse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.verse
	return &copied, nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
