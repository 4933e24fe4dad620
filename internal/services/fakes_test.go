package services

import (
	"context"
	"sync"
	"time"

	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/apperrors"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/models"
	"github.com/karthik-ak-dev/fairwin-app-sub001/internal/repositories"
	"github.com/karthik-ak-dev/fairwin-app-sub001/pkg/paygate"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// The fakes below mirror the semantics the services lean on: CAS
// updates report whether they matched, unique indexes surface as
// duplicate key errors, and missing documents return ErrNoDocuments.

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
}

type fakeRaffleRepo struct {
	mu        sync.Mutex
	raffles   map[primitive.ObjectID]*models.Raffle
	denyApply bool
}

var _ repositories.RaffleRepository = (*fakeRaffleRepo)(nil)

func newFakeRaffleRepo() *fakeRaffleRepo {
	return &fakeRaffleRepo{raffles: make(map[primitive.ObjectID]*models.Raffle)}
}

func (f *fakeRaffleRepo) Create(ctx context.Context, raffle *models.Raffle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raffle.ID = primitive.NewObjectID()
	raffle.CreatedAt = time.Now()
	raffle.UpdatedAt = raffle.CreatedAt
	f.raffles[raffle.ID] = raffle
	return nil
}

func (f *fakeRaffleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raffle, ok := f.raffles[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *raffle
	return &clone, nil
}

func (f *fakeRaffleRepo) FindAll(ctx context.Context, page, limit int) ([]*models.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Raffle{}
	for _, raffle := range f.raffles {
		clone := *raffle
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeRaffleRepo) FindByStatus(ctx context.Context, status models.RaffleStatus, page, limit int) ([]*models.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Raffle{}
	for _, raffle := range f.raffles {
		if raffle.Status == status {
			clone := *raffle
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRaffleRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.raffles)), nil
}

func (f *fakeRaffleRepo) FindDueToActivate(ctx context.Context, now time.Time) ([]*models.Raffle, error) {
	return f.filter(func(r *models.Raffle) bool {
		return r.Status == models.RaffleStatusScheduled && !r.StartTime.After(now)
	})
}

func (f *fakeRaffleRepo) FindDueToMarkEnding(ctx context.Context, cutoff time.Time) ([]*models.Raffle, error) {
	return f.filter(func(r *models.Raffle) bool {
		return r.Status == models.RaffleStatusActive && !r.EndTime.After(cutoff)
	})
}

func (f *fakeRaffleRepo) FindDueToDraw(ctx context.Context, now time.Time) ([]*models.Raffle, error) {
	return f.filter(func(r *models.Raffle) bool {
		return r.Status == models.RaffleStatusEnding && !r.EndTime.After(now)
	})
}

func (f *fakeRaffleRepo) filter(keep func(*models.Raffle) bool) ([]*models.Raffle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Raffle{}
	for _, raffle := range f.raffles {
		if keep(raffle) {
			clone := *raffle
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRaffleRepo) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, to models.RaffleStatus, from ...models.RaffleStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raffle, ok := f.raffles[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if raffle.Status == status {
			raffle.Status = to
			raffle.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRaffleRepo) BeginDraw(ctx context.Context, id primitive.ObjectID, seed string, drawTime time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raffle, ok := f.raffles[id]
	if !ok || raffle.Status != models.RaffleStatusEnding {
		return false, nil
	}
	raffle.Status = models.RaffleStatusDrawing
	raffle.RandomSeed = seed
	raffle.DrawTime = drawTime
	raffle.DrawError = ""
	return true, nil
}

func (f *fakeRaffleRepo) ApplyEntry(ctx context.Context, id primitive.ObjectID, entries, amount, newParticipants int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denyApply {
		return false, nil
	}
	raffle, ok := f.raffles[id]
	if !ok || !raffle.Status.AcceptsEntries() {
		return false, nil
	}
	raffle.TotalEntries += entries
	raffle.PrizePool += amount
	raffle.TotalParticipants += newParticipants
	return true, nil
}

func (f *fakeRaffleRepo) CompleteDraw(ctx context.Context, id primitive.ObjectID, protocolFee, winnerPayout int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raffle, ok := f.raffles[id]
	if !ok || raffle.Status != models.RaffleStatusDrawing {
		return false, nil
	}
	raffle.Status = models.RaffleStatusCompleted
	raffle.ProtocolFee = protocolFee
	raffle.WinnerPayout = winnerPayout
	return true, nil
}

func (f *fakeRaffleRepo) SetDrawError(ctx context.Context, id primitive.ObjectID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if raffle, ok := f.raffles[id]; ok {
		raffle.DrawError = message
	}
	return nil
}

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries []*models.Entry
}

var _ repositories.EntryRepository = (*fakeEntryRepo)(nil)

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{}
}

func (f *fakeEntryRepo) Create(ctx context.Context, entry *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.entries {
		if existing.PaymentReference == entry.PaymentReference {
			return duplicateKeyErr()
		}
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	clone := *entry
	f.entries = append(f.entries, &clone)
	return nil
}

func (f *fakeEntryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.ID == id {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeEntryRepo) FindByPaymentReference(ctx context.Context, reference string) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.PaymentReference == reference {
			clone := *entry
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeEntryRepo) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID, page, limit int) ([]*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Entry{}
	for _, entry := range f.entries {
		if entry.RaffleID == raffleID {
			clone := *entry
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) FindByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Entry{}
	for _, entry := range f.entries {
		if entry.WalletAddress == wallet {
			clone := *entry
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) FindConfirmedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Entry{}
	for _, entry := range f.entries {
		if entry.RaffleID == raffleID && entry.Status == models.EntryStatusConfirmed {
			clone := *entry
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) MarkRefundedByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var flipped int64
	for _, entry := range f.entries {
		if entry.RaffleID == raffleID && entry.Status == models.EntryStatusConfirmed {
			entry.Status = models.EntryStatusRefunded
			flipped++
		}
	}
	return flipped, nil
}

func (f *fakeEntryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, entry := range f.entries {
		if entry.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[string]*models.Participant
}

var _ repositories.ParticipantRepository = (*fakeParticipantRepo)(nil)

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[string]*models.Participant)}
}

func participantKey(raffleID primitive.ObjectID, wallet string) string {
	return raffleID.Hex() + "/" + wallet
}

func (f *fakeParticipantRepo) IncrementEntries(ctx context.Context, raffleID primitive.ObjectID, wallet string, entries, paid, maxEntries int64, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := participantKey(raffleID, wallet)
	p, ok := f.participants[key]
	if !ok {
		f.participants[key] = &models.Participant{
			ID:            primitive.NewObjectID(),
			RaffleID:      raffleID,
			WalletAddress: wallet,
			NumEntries:    entries,
			TotalPaid:     paid,
			FirstEntryAt:  now,
		}
		return true, nil
	}
	if p.NumEntries+entries > maxEntries {
		return false, apperrors.New(apperrors.KindMaxEntriesExceeded,
			"wallet %s would exceed the entry limit of %d for this raffle", wallet, maxEntries)
	}
	p.NumEntries += entries
	p.TotalPaid += paid
	return false, nil
}

func (f *fakeParticipantRepo) Reverse(ctx context.Context, raffleID primitive.ObjectID, wallet string, entries, paid int64, wasFirst bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := participantKey(raffleID, wallet)
	if wasFirst {
		delete(f.participants, key)
		return nil
	}
	if p, ok := f.participants[key]; ok {
		p.NumEntries -= entries
		p.TotalPaid -= paid
	}
	return nil
}

func (f *fakeParticipantRepo) FindByRaffleAndWallet(ctx context.Context, raffleID primitive.ObjectID, wallet string) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.participants[participantKey(raffleID, wallet)]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeParticipantRepo) CountByRaffleID(ctx context.Context, raffleID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, p := range f.participants {
		if p.RaffleID == raffleID {
			count++
		}
	}
	return count, nil
}

type fakeWinnerRepo struct {
	mu      sync.Mutex
	winners []*models.Winner
}

var _ repositories.WinnerRepository = (*fakeWinnerRepo)(nil)

func newFakeWinnerRepo() *fakeWinnerRepo {
	return &fakeWinnerRepo{}
}

func (f *fakeWinnerRepo) CreateMany(ctx context.Context, winners []*models.Winner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, winner := range winners {
		winner.ID = primitive.NewObjectID()
		winner.CreatedAt = now
		clone := *winner
		f.winners = append(f.winners, &clone)
	}
	return nil
}

func (f *fakeWinnerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Winner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, winner := range f.winners {
		if winner.ID == id {
			clone := *winner
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeWinnerRepo) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Winner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Winner{}
	for _, winner := range f.winners {
		if winner.RaffleID == raffleID {
			clone := *winner
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeWinnerRepo) FindByWallet(ctx context.Context, wallet string, page, limit int) ([]*models.Winner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Winner{}
	for _, winner := range f.winners {
		if winner.WalletAddress == wallet {
			clone := *winner
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakePayoutRepo struct {
	mu      sync.Mutex
	payouts []*models.Payout
}

var _ repositories.PayoutRepository = (*fakePayoutRepo)(nil)

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{}
}

func (f *fakePayoutRepo) CreateMany(ctx context.Context, payouts []*models.Payout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, payout := range payouts {
		payout.ID = primitive.NewObjectID()
		payout.CreatedAt = now
		clone := *payout
		f.payouts = append(f.payouts, &clone)
	}
	return nil
}

func (f *fakePayoutRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payout := range f.payouts {
		if payout.ID == id {
			clone := *payout
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePayoutRepo) FindByRaffleID(ctx context.Context, raffleID primitive.ObjectID) ([]*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Payout{}
	for _, payout := range f.payouts {
		if payout.RaffleID == raffleID {
			clone := *payout
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) FindByStatus(ctx context.Context, status models.PayoutStatus, page, limit int) ([]*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Payout{}
	for _, payout := range f.payouts {
		if payout.Status == status {
			clone := *payout
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) CountByStatus(ctx context.Context, status models.PayoutStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, payout := range f.payouts {
		if payout.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakePayoutRepo) FindDue(ctx context.Context, maxAttempts int, limit int) ([]*models.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Payout{}
	for _, payout := range f.payouts {
		if len(out) == limit {
			break
		}
		if payout.Status == models.PayoutStatusPending ||
			(payout.Status == models.PayoutStatusFailed && payout.Attempts < maxAttempts) {
			clone := *payout
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePayoutRepo) BeginAttempt(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payout := range f.payouts {
		if payout.ID == id {
			if payout.Status != models.PayoutStatusPending && payout.Status != models.PayoutStatusFailed {
				return false, nil
			}
			payout.Status = models.PayoutStatusProcessing
			payout.Attempts++
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayoutRepo) MarkPaid(ctx context.Context, id primitive.ObjectID, paymentReference string, processedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payout := range f.payouts {
		if payout.ID == id {
			if payout.Status != models.PayoutStatusProcessing {
				return false, nil
			}
			payout.Status = models.PayoutStatusPaid
			payout.PaymentReference = paymentReference
			payout.ProcessedAt = processedAt
			payout.Error = ""
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayoutRepo) MarkFailed(ctx context.Context, id primitive.ObjectID, message string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payout := range f.payouts {
		if payout.ID == id {
			if payout.Status != models.PayoutStatusProcessing {
				return false, nil
			}
			payout.Status = models.PayoutStatusFailed
			payout.Error = message
			return true, nil
		}
	}
	return false, nil
}

type fakeStatsRepo struct {
	mu    sync.Mutex
	stats models.PlatformStats
	fail  error
}

var _ repositories.StatsRepository = (*fakeStatsRepo)(nil)

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: models.PlatformStats{ID: models.PlatformStatsID}}
}

func (f *fakeStatsRepo) Get(ctx context.Context) (*models.PlatformStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := f.stats
	return &clone, nil
}

func (f *fakeStatsRepo) Apply(ctx context.Context, delta models.StatsDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.stats.TotalRaffles += delta.TotalRaffles
	f.stats.CompletedRaffles += delta.CompletedRaffles
	f.stats.CancelledRaffles += delta.CancelledRaffles
	f.stats.TotalEntries += delta.TotalEntries
	f.stats.TotalRevenue += delta.TotalRevenue
	f.stats.TotalWinners += delta.TotalWinners
	f.stats.TotalPaidOut += delta.TotalPaidOut
	return nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins []*models.AdminUser
}

var _ repositories.AdminUserRepository = (*fakeAdminRepo)(nil)

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{}
}

func (f *fakeAdminRepo) Create(ctx context.Context, adminUser *models.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	clone := *adminUser
	f.admins = append(f.admins, &clone)
	return nil
}

func (f *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, admin := range f.admins {
		if admin.Email == email {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAdminRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, admin := range f.admins {
		if admin.ID == id {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAdminRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.admins)), nil
}

type fakeGateway struct {
	mu      sync.Mutex
	failFor map[string]error
	calls   []paygate.TransferRequest
}

var _ paygate.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{failFor: make(map[string]error)}
}

func (g *fakeGateway) Transfer(ctx context.Context, req *paygate.TransferRequest) (*paygate.TransferResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, *req)
	if err, ok := g.failFor[req.WalletAddress]; ok {
		return nil, err
	}
	return &paygate.TransferResult{
		Reference: "REF-" + req.IdempotencyKey,
		Status:    "confirmed",
	}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
