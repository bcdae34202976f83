package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/flag-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/flag-quiz-bot/internal/repository"
)

var (
	ErrInsufficientCandidates = errors.New("not enough flags in selected regions")
	ErrQuizComplete           = errors.New("quiz is complete")
	ErrNoActiveQuestion       = errors.New("no question awaiting an answer")
	ErrQuestionInProgress     = errors.New("current question is not answered yet")
	ErrChoiceEliminated       = errors.New("choice already eliminated")
)

type FlagLister interface {
	ListFlags(ctx context.Context, regions []string) []entities.FlagID
}

type ProgressRepo interface {
	Get(ctx context.Context, playerID int64) (*entities.PlayerSettings, error)
	SaveProgress(ctx context.Context, playerID int64, progress string, queue []entities.FlagID) error
}

// QuizController runs the quiz of a single player. It is not safe for
// concurrent use; callers serialize access per player.
type QuizController struct {
	playerID int64
	length   int
	config   entities.QuizConfig
	catalog  FlagLister
	repo     ProgressRepo
	options  *OptionGenerator
	rnd      *rand.Rand
	logger   *zap.Logger

	pool    []entities.FlagID // flags of the enabled regions
	session *entities.QuizSession
}

func NewQuizController(
	playerID int64,
	length int,
	config entities.QuizConfig,
	catalog FlagLister,
	repo ProgressRepo,
	rnd *rand.Rand,
	logger *zap.Logger,
) *QuizController {
	return &QuizController{
		playerID: playerID,
		length:   length,
		config:   config,
		catalog:  catalog,
		repo:     repo,
		options:  NewOptionGenerator(rnd),
		rnd:      rnd,
		logger:   logger.With(zap.Int64("player_id", playerID)),
	}
}

// Config returns the configuration the controller runs with.
func (c *QuizController) Config() entities.QuizConfig {
	return c.config
}

// Session returns a copy of the current session, or nil before the first quiz.
func (c *QuizController) Session() *entities.QuizSession {
	if c.session == nil {
		return nil
	}
	return c.session.Clone()
}

// StartNewQuiz discards the current session, samples a new question queue
// and loads the first question.
func (c *QuizController) StartNewQuiz(ctx context.Context) (*entities.QuizSession, error) {
	pool := c.catalog.ListFlags(ctx, c.config.Regions)
	if len(pool) < c.length {
		return nil, fmt.Errorf("%w: %d flags in %v, need %d",
			ErrInsufficientCandidates, len(pool), c.config.Regions, c.length)
	}

	queue := sample(c.rnd, pool, c.length)

	// Refuse to start rather than fail mid-quiz on a small region.
	for _, id := range queue {
		if n := len(repository.FilterByRegion(pool, id.Region())); n < c.config.Choices {
			return nil, fmt.Errorf("%w: region %s has %d flags, need %d",
				ErrInsufficientChoices, id.Region(), n, c.config.Choices)
		}
	}

	s := entities.NewQuizSession(queue)
	if _, _, err := c.nextQuestion(s, pool); err != nil {
		return nil, err
	}
	if err := c.persist(ctx, s); err != nil {
		return nil, err
	}

	c.pool = pool
	c.session = s

	c.logger.Info("quiz started",
		zap.String("session_id", s.ID.String()),
		zap.Int("length", c.length),
		zap.Strings("regions", c.config.Regions),
	)

	return s.Clone(), nil
}

// LoadNextQuestion pops the next flag off the queue and builds its choices.
func (c *QuizController) LoadNextQuestion(ctx context.Context) (entities.FlagID, []entities.Choice, error) {
	if c.session == nil {
		return "", nil, ErrQuizComplete
	}

	s := c.session.Clone()
	next, choices, err := c.nextQuestion(s, c.pool)
	if err != nil {
		return "", nil, err
	}
	if err := c.persist(ctx, s); err != nil {
		return "", nil, err
	}
	c.session = s

	return next, slices.Clone(choices), nil
}

// nextQuestion moves the head of the queue on screen. It modifies s only on success.
func (c *QuizController) nextQuestion(s *entities.QuizSession, pool []entities.FlagID) (entities.FlagID, []entities.Choice, error) {
	if s.IsComplete() || len(s.Queue) == 0 {
		return "", nil, ErrQuizComplete
	}
	if s.HasActiveQuestion() {
		return "", nil, ErrQuestionInProgress
	}

	next := s.Queue[0]
	ids, err := c.options.Generate(next, repository.FilterByRegion(pool, next.Region()), c.config.Choices)
	if err != nil {
		return "", nil, fmt.Errorf("generate choices for %s: %w", next, err)
	}

	choices := make([]entities.Choice, len(ids))
	for i, id := range ids {
		choices[i] = entities.Choice{Name: id.CountryName(), Live: true}
	}

	s.Queue = s.Queue[1:]
	s.Current = next
	s.Choices = choices
	s.GuessesThisQuestion = 0
	s.Answered = false

	return next, choices, nil
}

// SubmitGuess records a guess on the current question.
func (c *QuizController) SubmitGuess(ctx context.Context, name string) (entities.GuessResult, error) {
	if c.session == nil || !c.session.HasActiveQuestion() {
		return entities.GuessResult{}, ErrNoActiveQuestion
	}

	// The live session changes only once the copy is saved.
	s := c.session.Clone()

	guess := normalizeName(name)
	idx := s.ChoiceIndex(guess)
	if idx >= 0 && !s.Choices[idx].Live {
		return entities.GuessResult{}, ErrChoiceEliminated
	}

	s.TotalGuesses++
	s.GuessesThisQuestion++

	result := entities.GuessResult{Answer: s.Current, Guess: guess}

	if guess == s.Current.CountryName() {
		s.CorrectAnswers++
		s.QuestionNumber++
		s.GuessesThisQuestion = 0
		s.Answered = true
		result.Outcome = entities.OutcomeCorrect
	} else {
		if idx >= 0 {
			s.Choices[idx].Live = false
		}
		result.Outcome = entities.OutcomeIncorrect

		if s.GuessesThisQuestion >= c.config.MaxGuesses {
			s.QuestionNumber++
			s.GuessesThisQuestion = 0
			s.Answered = true
			result.Outcome = entities.OutcomeExhaustedMaxGuesses
		}
	}

	if err := c.persist(ctx, s); err != nil {
		return entities.GuessResult{}, err
	}
	c.session = s

	c.logger.Debug("guess recorded",
		zap.String("session_id", s.ID.String()),
		zap.String("flag", s.Current.String()),
		zap.String("guess", guess),
		zap.Stringer("outcome", result.Outcome),
		zap.Int("question_number", s.QuestionNumber),
		zap.Int("total_guesses", s.TotalGuesses),
	)

	return result, nil
}

// IsComplete reports whether the current quiz has been finished.
func (c *QuizController) IsComplete() bool {
	return c.session != nil && c.session.IsComplete()
}

// FinalScore returns the score of the current quiz.
func (c *QuizController) FinalScore() entities.Score {
	if c.session == nil {
		return entities.NewScore(0, 0)
	}
	return entities.NewScore(c.session.TotalGuesses, c.session.CorrectAnswers)
}

// Resume rebuilds the session from persisted progress. Missing or corrupt
// progress starts a new quiz.
func (c *QuizController) Resume(ctx context.Context) (*entities.QuizSession, error) {
	settings, err := c.repo.Get(ctx, c.playerID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return c.StartNewQuiz(ctx)
		}
		return nil, err
	}

	if settings.Progress == "" {
		return c.StartNewQuiz(ctx)
	}

	p, err := DecodeProgress(settings.Progress)
	if err != nil {
		c.logger.Warn("discarding unreadable progress", zap.Error(err))
		return c.StartNewQuiz(ctx)
	}

	if !c.config.HasRegion(p.Correct.Region()) ||
		len(p.Choices) != c.config.Choices ||
		!answerable(p.Choices, p.Correct.CountryName()) ||
		p.QuestionNum > c.length ||
		p.CorrectAnswers > p.QuestionNum {
		c.logger.Warn("discarding progress that does not match settings",
			zap.String("flag", p.Correct.String()),
			zap.Int("choices", len(p.Choices)),
			zap.Int("question_number", p.QuestionNum),
		)
		return c.StartNewQuiz(ctx)
	}

	pool := c.catalog.ListFlags(ctx, c.config.Regions)

	s := &entities.QuizSession{
		ID:                  uuid.New(),
		Length:              c.length,
		Current:             p.Correct,
		Choices:             p.Choices,
		GuessesThisQuestion: p.NumCurrentGuess,
		TotalGuesses:        p.TotalGuess,
		CorrectAnswers:      p.CorrectAnswers,
		QuestionNumber:      p.QuestionNum,
		StartedAt:           time.Now(),
	}

	queue, answered, ok := c.restoreQueue(settings.Queue, p)
	if ok {
		s.Queue = queue
		s.Answered = answered
	} else {
		s.Answered = p.QuestionNum == c.length
		remaining := c.length - p.QuestionNum - 1
		if s.Answered {
			remaining = 0
		}

		candidates := slices.DeleteFunc(slices.Clone(pool), func(id entities.FlagID) bool {
			return id == p.Correct
		})
		if len(candidates) < remaining {
			c.logger.Warn("cannot rebuild question queue, starting over",
				zap.Int("candidates", len(candidates)),
				zap.Int("remaining", remaining),
			)
			return c.StartNewQuiz(ctx)
		}

		s.Queue = sample(c.rnd, candidates, remaining)
		if err := c.persist(ctx, s); err != nil {
			return nil, err
		}
	}

	c.pool = pool
	c.session = s

	c.logger.Info("quiz resumed",
		zap.String("session_id", s.ID.String()),
		zap.Int("question_number", s.QuestionNumber),
		zap.Int("queued", len(s.Queue)),
		zap.Bool("queue_restored", ok),
	)

	return s.Clone(), nil
}

// answerable reports whether the choices are distinct and offer the answer.
func answerable(choices []entities.Choice, answer string) bool {
	seen := make(map[string]bool, len(choices))
	for _, ch := range choices {
		if seen[ch.Name] {
			return false
		}
		seen[ch.Name] = true
	}

	i := slices.IndexFunc(choices, func(ch entities.Choice) bool { return ch.Name == answer })
	return i >= 0 && choices[i].Live
}

// restoreQueue validates the persisted queue against the progress record.
// The answered flag is derived from how many questions were handed out.
func (c *QuizController) restoreQueue(stored []entities.FlagID, p entities.Progress) (queue []entities.FlagID, answered, ok bool) {
	seen := map[entities.FlagID]bool{p.Correct: true}
	for _, id := range stored {
		if seen[id] || !c.config.HasRegion(id.Region()) {
			return nil, false, false
		}
		seen[id] = true
	}

	handedOut := c.length - len(stored)
	switch handedOut {
	case p.QuestionNum:
		return slices.Clone(stored), true, true
	case p.QuestionNum + 1:
		return slices.Clone(stored), false, true
	default:
		return nil, false, false
	}
}

// OnConfigChanged applies a settings change. Changing the choices or the
// regions discards the running quiz and starts a new one.
func (c *QuizController) OnConfigChanged(ctx context.Context, diff entities.ConfigDiff) ([]entities.Notice, error) {
	c.config = diff.New

	if !diff.ResetsQuiz() {
		return nil, nil
	}

	if _, err := c.StartNewQuiz(ctx); err != nil {
		c.session = nil
		if clearErr := c.repo.SaveProgress(ctx, c.playerID, "", nil); clearErr != nil {
			c.logger.Error("failed to clear progress", zap.Error(clearErr))
		}
		return nil, err
	}

	return []entities.Notice{entities.NoticeQuizRestarted}, nil
}

func (c *QuizController) persist(ctx context.Context, s *entities.QuizSession) error {
	progress := EncodeProgress(entities.ProgressFromSession(s))
	if err := c.repo.SaveProgress(ctx, c.playerID, progress, s.Queue); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// sample returns n distinct elements of pool in random order.
func sample(rnd *rand.Rand, pool []entities.FlagID, n int) []entities.FlagID {
	shuffled := slices.Clone(pool)

	// Partial Fisher-Yates: only the first n positions are needed.
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:n:n]
}

func normalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "_", " ")
}
