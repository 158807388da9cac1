package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/repository"
	"github.com/gracepointe/engage/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fallbackVerse is served whenever the external provider is unreachable and
// no cached verse exists for today. Reads never fail on provider outages.
var fallbackVerse = model.DailyVerse{
	Text:      "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life.",
	Reference: "John 3:16",
	Version:   "KJV",
}

// VerseFetcher pulls a verse from an external provider.
type VerseFetcher interface {
	Fetch(ctx context.Context) (*model.DailyVerse, error)
}

type httpVerseFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPVerseFetcher(url string) VerseFetcher {
	return &httpVerseFetcher{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (f *httpVerseFetcher) Fetch(ctx context.Context) (*model.DailyVerse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verse provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		Text            string `json:"text"`
		Reference       string `json:"reference"`
		TranslationName string `json:"translation_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Text == "" {
		return nil, fmt.Errorf("verse provider returned empty text")
	}

	version := payload.TranslationName
	if version == "" {
		version = "WEB"
	}

	return &model.DailyVerse{
		Text:      payload.Text,
		Reference: payload.Reference,
		Version:   version,
	}, nil
}

type CreateQuizInput struct {
	Question     string   `json:"question" binding:"required"`
	Options      []string `json:"options" binding:"required"`
	CorrectIndex int      `json:"correct_index"`
	DayKey       string   `json:"day_key"`
}

type AnswerInput struct {
	OptionIndex *int `json:"option_index" binding:"required"`
}

type QuizSubmitResult struct {
	Correct     bool `json:"correct"`
	PointsAdded int  `json:"points_added"`
	NewBalance  int  `json:"new_balance,omitempty"`
}

type DailyService interface {
	GetVerse(ctx context.Context) (*model.DailyVerse, error)
	GetQuiz(ctx context.Context) (*model.QuizPublic, error)
	SubmitQuizAnswer(ctx context.Context, userID uuid.UUID, optionIndex int) (*QuizSubmitResult, error)
	CreateQuiz(ctx context.Context, input CreateQuizInput) (*model.DailyQuiz, error)
}

type dailyService struct {
	repo    repository.DailyRepository
	rewards RewardService
	fetcher VerseFetcher
	rdb     *redis.Client
	logger  *zap.Logger
	now     func() time.Time
}

func NewDailyService(repo repository.DailyRepository, rewards RewardService, fetcher VerseFetcher, rdb *redis.Client, logger *zap.Logger) DailyService {
	return &dailyService{
		repo:    repo,
		rewards: rewards,
		fetcher: fetcher,
		rdb:     rdb,
		logger:  logger,
		now:     time.Now,
	}
}

func verseCacheKey(dayKey string) string {
	return "verse:" + dayKey
}

func (s *dailyService) GetVerse(ctx context.Context) (*model.DailyVerse, error) {
	dayKey := DayKey(s.now())

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, verseCacheKey(dayKey)).Result(); err == nil {
			var verse model.DailyVerse
			if json.Unmarshal([]byte(raw), &verse) == nil {
				return &verse, nil
			}
		}
	}

	verse, err := s.repo.FindVerseByDay(ctx, dayKey)
	if err == nil {
		s.cacheVerse(ctx, verse)
		return verse, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fetched, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.Warn("verse fetch failed, serving fallback", zap.Error(err))
		fb := fallbackVerse
		fb.DayKey = dayKey
		return &fb, nil
	}

	fetched.DayKey = dayKey
	if err := s.repo.SaveVerse(ctx, fetched); err != nil {
		s.logger.Warn("verse cache write failed", zap.Error(err))
	}
	s.cacheVerse(ctx, fetched)

	return fetched, nil
}

func (s *dailyService) cacheVerse(ctx context.Context, verse *model.DailyVerse) {
	if s.rdb == nil {
		return
	}
	if raw, err := json.Marshal(verse); err == nil {
		s.rdb.Set(ctx, verseCacheKey(verse.DayKey), raw, 48*time.Hour)
	}
}

func (s *dailyService) GetQuiz(ctx context.Context) (*model.QuizPublic, error) {
	quiz, err := s.repo.FindQuizByDay(ctx, DayKey(s.now()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no quiz for today", apperror.ErrNotFound)
		}
		return nil, err
	}

	public := quiz.Public()
	return &public, nil
}

func (s *dailyService) SubmitQuizAnswer(ctx context.Context, userID uuid.UUID, optionIndex int) (*QuizSubmitResult, error) {
	quiz, err := s.repo.FindQuizByDay(ctx, DayKey(s.now()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no quiz for today", apperror.ErrNotFound)
		}
		return nil, err
	}

	if optionIndex != quiz.CorrectIndex {
		// Wrong answers never reach the ledger; the member may try again.
		return &QuizSubmitResult{Correct: false}, nil
	}

	outcome, err := s.rewards.Grant(ctx, userID, model.RewardQuiz, "Daily quiz correct answer")
	if err != nil {
		return nil, err
	}
	if !outcome.Accepted {
		return nil, apperror.ErrAlreadyAnswered
	}

	return &QuizSubmitResult{
		Correct:     true,
		PointsAdded: outcome.PointsAdded,
		NewBalance:  outcome.NewBalance,
	}, nil
}

func (s *dailyService) CreateQuiz(ctx context.Context, input CreateQuizInput) (*model.DailyQuiz, error) {
	if len(input.Options) < 2 {
		return nil, fmt.Errorf("%w: a quiz needs at least 2 options", apperror.ErrInvalidInput)
	}
	if input.CorrectIndex < 0 || input.CorrectIndex >= len(input.Options) {
		return nil, fmt.Errorf("%w: correct_index out of bounds", apperror.ErrInvalidInput)
	}

	dayKey := input.DayKey
	if dayKey == "" {
		dayKey = DayKey(s.now())
	} else if _, err := time.Parse("2006-01-02", dayKey); err != nil {
		return nil, fmt.Errorf("%w: day_key must be YYYY-MM-DD", apperror.ErrInvalidInput)
	}

	quiz := &model.DailyQuiz{
		DayKey:       dayKey,
		Question:     input.Question,
		Options:      input.Options,
		CorrectIndex: input.CorrectIndex,
	}

	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: a quiz already exists for %s", apperror.ErrInvalidInput, dayKey)
		}
		return nil, err
	}

	return quiz, nil
}
