package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tournio/swiss-system/models"
	"github.com/tournio/swiss-system/pairing"
	"github.com/tournio/swiss-system/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, name string, scheduledRounds int) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	AddParticipant(ctx context.Context, id, key string) error

	StartNextRound(ctx context.Context, id string) (*models.Round, error)
	RecordResult(ctx context.Context, id string, roundOrdinal, matchIndex int, scoreA, scoreB float64) error
	CloseRoundIfComplete(ctx context.Context, id string) (bool, error)
	Finish(ctx context.Context, id string) error

	Rankings(ctx context.Context, id string) ([]models.Standing, error)
	TieBreakStatus(ctx context.Context, id string) (*models.TieBreakStatus, error)
	RunTieBreakRound(ctx context.Context, id string) (*models.Round, error)

	ValidateConsistency(ctx context.Context, id string) ([]string, error)
	RecomputeScores(ctx context.Context, id string) error
}

// tournamentService — оркестратор жизненного цикла. Сущности не
// потокобезопасны, поэтому все мутирующие вызовы сериализуются mu.
type tournamentService struct {
	repo     repositories.TournamentRepository
	pairing  pairing.PairingStrategy
	tieBreak pairing.TieBreakStrategy
	hub      *pairing.Hub
	logger   *slog.Logger

	mu sync.Mutex
}

func NewTournamentService(
	repo repositories.TournamentRepository,
	pairingStrategy pairing.PairingStrategy,
	tieBreakStrategy pairing.TieBreakStrategy,
	hub *pairing.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:     repo,
		pairing:  pairingStrategy,
		tieBreak: tieBreakStrategy,
		hub:      hub,
		logger:   logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, name string, scheduledRounds int) (*models.Tournament, error) {
	t, err := models.NewTournament(name, scheduledRounds)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	s.logger.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("name", t.Name),
		slog.Int("scheduled_rounds", t.ScheduledRounds))
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	return s.getTournament(ctx, id)
}

func (s *tournamentService) List(ctx context.Context) ([]*models.Tournament, error) {
	return s.repo.List(ctx)
}

func (s *tournamentService) AddParticipant(ctx context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return err
	}
	if err := t.AddParticipant(key); err != nil {
		return err
	}
	return s.repo.Update(ctx, t)
}

// StartNextRound запрашивает пары у стратегии жеребьёвки и строит
// очередной тур. Тай-брейковые туры стартуют через RunTieBreakRound.
func (s *tournamentService) StartNextRound(ctx context.Context, id string) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsFinished() {
		return nil, ErrTournamentFinished
	}
	if last := t.LastRound(); last != nil && !last.Closed {
		return nil, ErrRoundInProgress
	}
	if t.CurrentRound >= t.ScheduledRounds {
		return nil, ErrScheduledRoundsComplete
	}

	pairs, err := s.pairing.GeneratePairs(ctx, pairing.GeneratePairsParams{Tournament: t})
	if err != nil {
		return nil, err
	}

	// Качество оценивается по истории до добавления нового тура, иначе
	// только что созданные матчи сами считались бы повторными встречами.
	quality := pairing.AnalyzeQuality(t, pairs)

	round, err := t.StartRound(pairs, false)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("round started",
		slog.String("tournament_id", t.ID),
		slog.Int("round", round.Ordinal),
		slog.Int("rematches", quality.Rematches),
		slog.Float64("avg_score_gap", quality.AvgScoreGap))

	s.broadcast(t.ID, pairing.EventRoundStarted, round)
	return round, nil
}

// RecordResult записывает результат матча и начисляет очки обоим участникам.
// При любой ошибке состояние не меняется частично: SetResult и Add проверяют
// один и тот же набор допустимых значений.
func (s *tournamentService) RecordResult(ctx context.Context, id string, roundOrdinal, matchIndex int, scoreA, scoreB float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return err
	}
	round := t.RoundByOrdinal(roundOrdinal)
	if round == nil {
		return fmt.Errorf("%w: ordinal %d", ErrRoundNotFound, roundOrdinal)
	}
	if round.Closed {
		return models.ErrRoundClosed
	}
	if matchIndex < 0 || matchIndex >= len(round.Matches) {
		return fmt.Errorf("%w: index %d in round %d", ErrMatchNotFound, matchIndex, roundOrdinal)
	}
	match := round.Matches[matchIndex]

	if err := match.SetResult(scoreA, scoreB); err != nil {
		return err
	}
	if err := t.Scores.Add(match.ParticipantA, match.ScoreA); err != nil {
		return err
	}
	if err := t.Scores.Add(match.ParticipantB, match.ScoreB); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	s.broadcast(t.ID, pairing.EventMatchResult, match)
	s.broadcast(t.ID, pairing.EventStandingsUpdated, t.CurrentRankings())
	return nil
}

// CloseRoundIfComplete закрывает последний тур, если все матчи завершены.
// Возвращает false без ошибки, когда закрывать нечего. Закрытие последнего
// запланированного тура при единственном лидере завершает турнир; закрытие
// тай-брейка переоценивает равенство, и если оставшуюся группу со-лидеров
// больше не разбить, турнир завершается с несколькими победителями.
func (s *tournamentService) CloseRoundIfComplete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return false, err
	}
	round := t.LastRound()
	if round == nil || round.Closed || !round.AllMatchesFinished() {
		return false, nil
	}
	if err := round.Close(); err != nil {
		return false, err
	}

	s.broadcast(t.ID, pairing.EventRoundClosed, round)

	if t.CurrentRound >= t.ScheduledRounds {
		if t.HasTieForFirst() {
			if round.TieBreak && !s.tieBreak.CanPairTieBreak(t) {
				// Нечётную группу со-лидеров следующим тай-брейком
				// не разбить: равенство принимается как итог.
				t.Finish()
				s.logger.Info("tournament finished with co-leaders",
					slog.String("tournament_id", t.ID),
					slog.Int("co_leaders", len(t.TiedForFirst())))
				s.broadcast(t.ID, pairing.EventTournamentFinished, t.CurrentRankings())
			} else {
				s.logger.Info("tie for first place after round close",
					slog.String("tournament_id", t.ID),
					slog.Int("round", round.Ordinal),
					slog.Int("tied", len(t.TiedForFirst())))
			}
		} else {
			t.Finish()
			s.logger.Info("tournament finished",
				slog.String("tournament_id", t.ID),
				slog.Int("rounds_played", t.CurrentRound))
			s.broadcast(t.ID, pairing.EventTournamentFinished, t.CurrentRankings())
		}
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return false, err
	}
	return true, nil
}

// Finish завершает турнир явно. Сохранившееся равенство допустимо:
// турнир заканчивается с несколькими со-лидерами.
func (s *tournamentService) Finish(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return err
	}
	if t.IsFinished() {
		return ErrTournamentFinished
	}
	if last := t.LastRound(); last != nil && !last.Closed {
		return ErrRoundInProgress
	}
	t.Finish()
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}

	s.logger.Info("tournament finished by operator",
		slog.String("tournament_id", t.ID),
		slog.Int("co_leaders", len(t.TiedForFirst())))
	s.broadcast(t.ID, pairing.EventTournamentFinished, t.CurrentRankings())
	return nil
}

func (s *tournamentService) Rankings(ctx context.Context, id string) ([]models.Standing, error) {
	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.CurrentRankings(), nil
}

func (s *tournamentService) TieBreakStatus(ctx context.Context, id string) (*models.TieBreakStatus, error) {
	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.TieBreakStatus{
		Needed:  s.tieBreak.NeedsTieBreak(t),
		Tied:    s.tieBreak.TiedParticipants(t),
		CanPair: s.tieBreak.CanPairTieBreak(t),
	}, nil
}

// RunTieBreakRound строит дополнительный тур только из участников,
// делящих первое место.
func (s *tournamentService) RunTieBreakRound(ctx context.Context, id string) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.getTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Finished {
		return nil, ErrTournamentFinished
	}
	if last := t.LastRound(); last != nil && !last.Closed {
		return nil, ErrRoundInProgress
	}
	if !s.tieBreak.NeedsTieBreak(t) {
		return nil, ErrTieBreakNotNeeded
	}
	if !s.tieBreak.CanPairTieBreak(t) {
		return nil, ErrTieBreakNotPairable
	}

	pairs, err := s.tieBreak.GeneratePairs(t)
	if err != nil {
		return nil, err
	}
	round, err := t.StartRound(pairs, true)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tie-break round started",
		slog.String("tournament_id", t.ID),
		slog.Int("round", round.Ordinal),
		slog.Int("tied", len(pairs)*2))
	s.broadcast(t.ID, pairing.EventRoundStarted, round)
	return round, nil
}

func (s *tournamentService) getTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) broadcast(tournamentID, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToTournament(tournamentID, pairing.Event{Type: eventType, Payload: payload})
}
