package impl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"hub/config"
	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/errors"
	"hub/internal/usecase"

	"go.uber.org/fx"
)

const usersCollection = "users"

// userStore implements the UserStore interface.
type userStore struct {
	*collection[entity.Actor]

	verifier service.SecretVerifier
	seed     *config.SeedAccount
}

// UserStoreParams holds dependencies for UserStore, injected by Fx.
type UserStoreParams struct {
	fx.In

	Remote    repository.DocumentStore
	Snapshots repository.SnapshotStore
	Verifier  service.SecretVerifier
	Recorder  service.OperationRecorder `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewUserStore is the constructor for userStore. The store is warmed from
// its persisted snapshot.
func NewUserStore(params UserStoreParams) usecase.UserStore {
	store := &userStore{
		collection: newCollection(usersCollection, decodeActor, collectionDeps{
			Remote:    params.Remote,
			Snapshots: params.Snapshots,
			Recorder:  params.Recorder,
			Logger:    params.Logger,
		}),
		verifier: params.Verifier,
	}
	if params.Config != nil && params.Config.Seed != nil {
		store.seed = params.Config.Seed.Admin
	}
	if params.Config != nil && params.Config.Store != nil {
		store.setOffline(params.Config.Store.Offline)
	}

	if err := store.warm(context.Background()); err != nil {
		store.deps.Logger.Warn("Failed to warm users from snapshot", slog.Any("error", err))
	}

	return store
}

func decodeActor(doc repository.Document) (entity.Actor, error) {
	var actor entity.Actor
	if err := doc.DataTo(&actor); err != nil {
		return actor, err
	}
	actor.ID = doc.ID
	if actor.CreatedAt.IsZero() {
		actor.CreatedAt = doc.CreateTime
	}

	return actor, nil
}

// query reads every account. Sign-in, relationships and permission lookups
// resolve against the local collection, so it is never paged.
func (s *userStore) query() repository.Query {
	return repository.Query{Collection: usersCollection}
}

// Load fetches all accounts. An empty users collection is seeded with the
// configured administrator.
func (s *userStore) Load(ctx context.Context) error {
	if err := s.load(ctx, s.query()); err != nil {
		return err
	}

	if s.currentStatus().Size == 0 && !s.isOffline() {
		return s.seedAdmin(ctx)
	}

	return nil
}

func (s *userStore) seedAdmin(ctx context.Context) error {
	if s.seed == nil || s.seed.Username == "" {
		return nil
	}

	sealed, err := s.verifier.Seal(s.seed.Password)
	if err != nil {
		return errors.Wrap(err, "seal seed password")
	}

	admin := entity.Actor{
		Username:         s.seed.Username,
		Email:            s.seed.Email,
		Password:         sealed,
		Role:             entity.RoleWebmaster,
		IsActive:         true,
		ActivationStatus: entity.ActivationActive,
		Permissions:      entity.Permissions{CanEditProducts: true, CanAddProducts: true, CanDeleteProducts: true},
	}

	created, err := s.insert(ctx, creationFields(admin), realizeActor(admin))
	if err != nil {
		return err
	}

	s.log(ctx).Info("Seeded administrator account", slog.String("id", created.ID), slog.String("username", created.Username))

	return nil
}

// Subscribe mirrors the users collection continuously.
func (s *userStore) Subscribe(ctx context.Context) (usecase.Subscription, error) {
	return s.subscribe(ctx, s.query())
}

func (s *userStore) Status() usecase.Status {
	return s.currentStatus()
}

func (s *userStore) Observe(fn func([]entity.Actor)) func() {
	return s.observe(fn)
}

func (s *userStore) SetOffline(offline bool) {
	s.setOffline(offline)
}

func (s *userStore) All() []entity.Actor {
	return s.all()
}

func (s *userStore) FindByID(id string) (entity.Actor, bool) {
	return s.find(id)
}

// FindByIdentifier matches username or email, ignoring case and surrounding spaces.
func (s *userStore) FindByIdentifier(identifier string) (entity.Actor, bool) {
	return s.findIdentifier(identifier, "")
}

// findIdentifier is FindByIdentifier skipping the account exceptID.
func (s *userStore) findIdentifier(identifier, exceptID string) (entity.Actor, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return entity.Actor{}, false
	}

	return s.findFunc(func(a entity.Actor) bool {
		if a.ID == exceptID {
			return false
		}

		return strings.EqualFold(a.Username, identifier) || strings.EqualFold(a.Email, identifier)
	})
}

// checkIdentifiers fails when a username or email is held by another account.
func (s *userStore) checkIdentifiers(exceptID string, identifiers ...string) error {
	for _, identifier := range identifiers {
		if _, taken := s.findIdentifier(identifier, exceptID); taken {
			return domainerrors.ErrActorAlreadyExists.WithDetails(strings.TrimSpace(identifier))
		}
	}

	return nil
}

// Create adds an account. Only the administrator may create accounts.
func (s *userStore) Create(ctx context.Context, by entity.Actor, input usecase.CreateActorInput) (*entity.Actor, error) {
	if err := requireAdmin(by); err != nil {
		s.log(ctx).Warn("Rejected account creation", slog.String("by", by.ID))

		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := s.checkIdentifiers("", input.Username, input.Email); err != nil {
		return nil, err
	}

	sealed, err := s.verifier.Seal(input.Password)
	if err != nil {
		return nil, domainerrors.ErrInternalError.WrapMessage("seal password")
	}

	actor := entity.Actor{
		Username:         strings.TrimSpace(input.Username),
		Email:            strings.TrimSpace(input.Email),
		Password:         sealed,
		Role:             input.Role,
		IsActive:         true,
		ActivationStatus: entity.ActivationActive,
		FranchiseName:    input.FranchiseName,
		Avatar:           input.Avatar,
		Teammates:        []string{},
		Followers:        []string{},
		Following:        []string{},
	}
	if input.Pending {
		actor.ActivationStatus = entity.ActivationPending
	}
	switch {
	case input.Role == entity.RoleWebmaster:
		actor.Permissions = entity.Permissions{CanEditProducts: true, CanAddProducts: true, CanDeleteProducts: true}
	case input.Role == entity.RoleFranchise && input.Permissions != nil:
		actor.Permissions = *input.Permissions
	}

	created, err := s.insert(ctx, creationFields(actor), realizeActor(actor))
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func creationFields(actor entity.Actor) map[string]any {
	fields := actor.Fields()
	fields["createdAt"] = repository.ServerTimestamp
	fields["updatedAt"] = repository.ServerTimestamp
	fields["lastActive"] = repository.ServerTimestamp

	return fields
}

func realizeActor(actor entity.Actor) func(*repository.WriteResult) entity.Actor {
	return func(res *repository.WriteResult) entity.Actor {
		actor.ID = res.ID
		actor.CreatedAt = res.UpdateTime
		actor.UpdatedAt = res.UpdateTime
		actor.LastActive = res.UpdateTime

		return actor
	}
}

// Update writes the partial changes, then merges them locally. Accounts may
// edit themselves; permissions and activation are administrator only.
func (s *userStore) Update(ctx context.Context, by entity.Actor, id string, changes usecase.ActorChanges) error {
	if by.ID == "" || !by.CanManageActor(id) {
		s.log(ctx).Warn("Rejected account update", slog.String("by", by.ID), slog.String("target", id))

		return domainerrors.ErrPermissionDenied.WithDetails("administrator or account owner required")
	}
	if !by.IsAdmin() && (changes.Permissions != nil || changes.IsActive != nil || changes.ActivationStatus != nil) {
		s.log(ctx).Warn("Rejected privileged account update", slog.String("by", by.ID), slog.String("target", id))

		return domainerrors.ErrPermissionDenied.WithDetails("administrator required")
	}

	return s.apply(ctx, id, changes)
}

func (s *userStore) apply(ctx context.Context, id string, changes usecase.ActorChanges) error {
	if err := validateInput(changes); err != nil {
		return err
	}

	if changes.Username != nil {
		username := strings.TrimSpace(*changes.Username)
		changes.Username = &username
		if err := s.checkIdentifiers(id, username); err != nil {
			return err
		}
	}
	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		changes.Email = &email
		if err := s.checkIdentifiers(id, email); err != nil {
			return err
		}
	}

	if changes.Password != nil {
		sealed, err := s.verifier.Seal(*changes.Password)
		if err != nil {
			return domainerrors.ErrInternalError.WrapMessage("seal password")
		}
		changes.Password = &sealed
	}

	fields := actorChangeFields(changes)
	if len(fields) == 0 {
		return nil
	}
	fields["updatedAt"] = repository.ServerTimestamp
	now := s.deps.Now()

	return s.update(ctx, id, fields, func(a *entity.Actor) {
		applyActorChanges(a, changes)
		a.UpdatedAt = now
	})
}

func actorChangeFields(c usecase.ActorChanges) map[string]any {
	fields := make(map[string]any)
	if c.Username != nil {
		fields["username"] = *c.Username
	}
	if c.Email != nil {
		fields["email"] = *c.Email
	}
	if c.Password != nil {
		fields["password"] = *c.Password
	}
	if c.FranchiseName != nil {
		fields["franchiseName"] = *c.FranchiseName
	}
	if c.Avatar != nil {
		fields["avatar"] = *c.Avatar
	}
	if c.Permissions != nil {
		fields["permissions"] = c.Permissions.Fields()
	}
	if c.IsActive != nil {
		fields["isActive"] = *c.IsActive
	}
	if c.ActivationStatus != nil {
		fields["activationStatus"] = string(*c.ActivationStatus)
	}

	return fields
}

func applyActorChanges(a *entity.Actor, c usecase.ActorChanges) {
	if c.Username != nil {
		a.Username = *c.Username
	}
	if c.Email != nil {
		a.Email = *c.Email
	}
	if c.Password != nil {
		a.Password = *c.Password
	}
	if c.FranchiseName != nil {
		a.FranchiseName = *c.FranchiseName
	}
	if c.Avatar != nil {
		a.Avatar = *c.Avatar
	}
	if c.Permissions != nil {
		a.Permissions = *c.Permissions
	}
	if c.IsActive != nil {
		a.IsActive = *c.IsActive
	}
	if c.ActivationStatus != nil {
		a.ActivationStatus = *c.ActivationStatus
	}
}

// Remove deletes the account and drops it from every relationship set of
// the other accounts in the same atomic batch.
func (s *userStore) Remove(ctx context.Context, by entity.Actor, id string) error {
	if by.ID == "" || !by.CanManageActor(id) {
		s.log(ctx).Warn("Rejected account removal", slog.String("by", by.ID), slog.String("target", id))

		return domainerrors.ErrPermissionDenied.WithDetails("administrator or account owner required")
	}

	ops := []repository.BatchOp{{Kind: repository.BatchDelete, Collection: usersCollection, ID: id}}
	for _, other := range s.all() {
		if other.ID == id {
			continue
		}
		stripped := withoutRelation(other, id)
		if slices.Equal(stripped.Followers, other.Followers) &&
			slices.Equal(stripped.Following, other.Following) &&
			slices.Equal(stripped.Teammates, other.Teammates) {
			continue
		}
		ops = append(ops, repository.BatchOp{
			Kind:       repository.BatchUpdate,
			Collection: usersCollection,
			ID:         other.ID,
			Fields: map[string]any{
				"followers": stripped.Followers,
				"following": stripped.Following,
				"teammates": stripped.Teammates,
			},
		})
	}

	if err := s.batch(ctx, "remove", ops, func(a *entity.Actor) { *a = withoutRelation(*a, id) }); err != nil {
		return err
	}
	s.removeLocal(ctx, id)

	return nil
}

func withoutRelation(a entity.Actor, id string) entity.Actor {
	a = a.Clone()
	a.Followers = without(a.Followers, id)
	a.Following = without(a.Following, id)
	a.Teammates = without(a.Teammates, id)

	return a
}

// ToggleStatus flips whether an account may log in. Administrator only.
func (s *userStore) ToggleStatus(ctx context.Context, by entity.Actor, id string) error {
	if err := requireAdmin(by); err != nil {
		return err
	}

	target, ok := s.FindByID(id)
	if !ok {
		return domainerrors.ErrNotFound.WithDetails("account " + id)
	}

	active := !target.IsActive
	status := entity.ActivationInactive
	if active {
		status = entity.ActivationActive
	}

	return s.apply(ctx, id, usecase.ActorChanges{IsActive: &active, ActivationStatus: &status})
}

// Activate moves a pending account to active.
func (s *userStore) Activate(ctx context.Context, id string) error {
	active := true
	status := entity.ActivationActive

	return s.apply(ctx, id, usecase.ActorChanges{IsActive: &active, ActivationStatus: &status})
}

// UpdateActivity records presence and the last activity time.
func (s *userStore) UpdateActivity(ctx context.Context, id string, online bool) error {
	now := s.deps.Now()

	return s.update(ctx, id, map[string]any{
		"isOnline":   online,
		"lastActive": repository.ServerTimestamp,
	}, func(a *entity.Actor) {
		a.IsOnline = online
		a.LastActive = now
	})
}

func (s *userStore) CanManageProducts(id string) bool {
	actor, ok := s.FindByID(id)

	return ok && actor.CanManageProducts()
}

func (s *userStore) IsFollowing(actorID, targetID string) bool {
	actor, ok := s.FindByID(actorID)

	return ok && actor.IsFollowing(targetID)
}

func (s *userStore) IsTeammate(actorID, targetID string) bool {
	actor, ok := s.FindByID(actorID)

	return ok && actor.IsTeammate(targetID)
}

// relation selects the pair of sets kept symmetric by a relationship.
type relation struct {
	name string
	// own is the set on the acting account, other the set on the target.
	own, other func(*entity.Actor) *[]string
	ownField   string
	otherField string
}

var (
	followRelation = relation{
		name:       "follow",
		own:        func(a *entity.Actor) *[]string { return &a.Following },
		other:      func(a *entity.Actor) *[]string { return &a.Followers },
		ownField:   "following",
		otherField: "followers",
	}
	teamRelation = relation{
		name:       "team",
		own:        func(a *entity.Actor) *[]string { return &a.Teammates },
		other:      func(a *entity.Actor) *[]string { return &a.Teammates },
		ownField:   "teammates",
		otherField: "teammates",
	}
)

func (s *userStore) Follow(ctx context.Context, actorID, targetID string) error {
	return s.relate(ctx, followRelation, actorID, targetID, true)
}

func (s *userStore) Unfollow(ctx context.Context, actorID, targetID string) error {
	return s.relate(ctx, followRelation, actorID, targetID, false)
}

func (s *userStore) TeamUp(ctx context.Context, actorID, targetID string) error {
	return s.relate(ctx, teamRelation, actorID, targetID, true)
}

func (s *userStore) Unteam(ctx context.Context, actorID, targetID string) error {
	return s.relate(ctx, teamRelation, actorID, targetID, false)
}

// relate adds or removes a relationship on both accounts in one atomic
// batch, so neither side is ever observed without the other.
func (s *userStore) relate(ctx context.Context, rel relation, actorID, targetID string, link bool) error {
	if actorID == "" || actorID == targetID {
		return domainerrors.ErrValidationFailed.WithDetails("cannot " + rel.name + " yourself")
	}

	actor, ok := s.FindByID(actorID)
	if !ok {
		return domainerrors.ErrNotFound.WithDetails("account " + actorID)
	}
	target, ok := s.FindByID(targetID)
	if !ok {
		return domainerrors.ErrNotFound.WithDetails("account " + targetID)
	}

	ownNext := toggled(*rel.own(&actor), targetID, link)
	otherNext := toggled(*rel.other(&target), actorID, link)
	if slices.Equal(ownNext, *rel.own(&actor)) && slices.Equal(otherNext, *rel.other(&target)) {
		return nil
	}

	ops := []repository.BatchOp{
		{Kind: repository.BatchUpdate, Collection: usersCollection, ID: actorID, Fields: map[string]any{rel.ownField: ownNext}},
		{Kind: repository.BatchUpdate, Collection: usersCollection, ID: targetID, Fields: map[string]any{rel.otherField: otherNext}},
	}

	return s.batch(ctx, rel.name, ops, func(a *entity.Actor) {
		switch a.ID {
		case actorID:
			*rel.own(a) = slices.Clone(ownNext)
		case targetID:
			*rel.other(a) = slices.Clone(otherNext)
		}
	})
}

func toggled(ids []string, id string, present bool) []string {
	if present {
		if slices.Contains(ids, id) {
			return slices.Clone(ids)
		}
		out := make([]string, 0, len(ids)+1)
		out = append(out, ids...)

		return append(out, id)
	}

	return without(ids, id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}

	return out
}

func (s *userStore) Close() {
	s.close()
}

func pageSizeOf(cfg *config.Config) int {
	if cfg != nil && cfg.Store != nil && cfg.Store.PageSize > 0 {
		return cfg.Store.PageSize
	}

	return 50
}

