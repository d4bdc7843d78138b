package docstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serversCollection  = "servers"
	usersCollection    = "users"
	settingsCollection = "settings"
	membersCollection  = "users"

	autoRoleDoc   = "autoRole"
	incomeShopDoc = "incomeShop"
)

// FirestoreStore reads and writes the dashboard documents in the same
// Firestore layout the bot uses: servers/{guildId} holds the base
// settings, servers/{guildId}/settings holds feature documents,
// servers/{guildId}/users holds member balances, and the top-level
// users collection maps user IDs to usernames.
type FirestoreStore struct {
	client    *firestore.Client
	projectID string
}

// Ensure FirestoreStore implements Store
var _ Store = (*FirestoreStore)(nil)

// guildSettingsDoc is the servers/{guildId} document
type guildSettingsDoc struct {
	GuildID        string    `firestore:"guildId"`
	GuildName      string    `firestore:"guildName"`
	Prefix         string    `firestore:"prefix"`
	CurrencySymbol string    `firestore:"currencySymbol"`
	CreatedAt      time.Time `firestore:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt"`
	UpdatedBy      string    `firestore:"updatedBy,omitempty"`
}

// autoRoleSettingsDoc is the servers/{guildId}/settings/autoRole document
type autoRoleSettingsDoc struct {
	Enabled   bool      `firestore:"enabled"`
	RoleIDs   []string  `firestore:"roleIds"`
	UpdatedAt time.Time `firestore:"updatedAt"`
	UpdatedBy string    `firestore:"updatedBy,omitempty"`
}

// incomeRoleDoc is one entry in the income shop roles array
type incomeRoleDoc struct {
	ID       string `firestore:"id"`
	RoleID   string `firestore:"roleId"`
	RoleName string `firestore:"roleName"`
	Price    int64  `firestore:"price"`
	Income   int64  `firestore:"income"`
}

// incomeShopSettingsDoc is the servers/{guildId}/settings/incomeShop document
type incomeShopSettingsDoc struct {
	Enabled   bool            `firestore:"enabled"`
	Roles     []incomeRoleDoc `firestore:"roles"`
	UpdatedAt time.Time       `firestore:"updatedAt"`
	UpdatedBy string          `firestore:"updatedBy,omitempty"`
}

// memberBalanceDoc is a servers/{guildId}/users/{userId} document
type memberBalanceDoc struct {
	Balance int64 `firestore:"balance"`
	Bank    int64 `firestore:"bank"`
}

// userDoc is a top-level users/{userId} document
type userDoc struct {
	Username string `firestore:"username"`
}

// NewFirestoreStore creates a Firestore-backed document store
func NewFirestoreStore(ctx context.Context, projectID, database string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required")
	}

	var client *firestore.Client
	var err error

	if database != "" && database != "(default)" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, database)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{
		client:    client,
		projectID: projectID,
	}, nil
}

func (s *FirestoreStore) guildDoc(guildID string) *firestore.DocumentRef {
	return s.client.Collection(serversCollection).Doc(guildID)
}

func (s *FirestoreStore) GetGuildSettings(ctx context.Context, guildID string) (*GuildSettings, error) {
	doc, err := s.guildDoc(guildID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	var stored guildSettingsDoc
	if err := doc.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guild settings: %w", err)
	}

	return &GuildSettings{
		GuildID:        stored.GuildID,
		GuildName:      stored.GuildName,
		Prefix:         stored.Prefix,
		CurrencySymbol: stored.CurrencySymbol,
		CreatedAt:      stored.CreatedAt,
		UpdatedAt:      stored.UpdatedAt,
		UpdatedBy:      stored.UpdatedBy,
	}, nil
}

func (s *FirestoreStore) SetGuildSettings(ctx context.Context, guildID string, settings *GuildSettings) error {
	stored := guildSettingsDoc{
		GuildID:        guildID,
		GuildName:      settings.GuildName,
		Prefix:         settings.Prefix,
		CurrencySymbol: settings.CurrencySymbol,
		CreatedAt:      settings.CreatedAt,
		UpdatedAt:      settings.UpdatedAt,
		UpdatedBy:      settings.UpdatedBy,
	}
	if _, err := s.guildDoc(guildID).Set(ctx, stored); err != nil {
		return fmt.Errorf("failed to store guild settings: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetAutoRole(ctx context.Context, guildID string) (*AutoRoleSettings, error) {
	doc, err := s.guildDoc(guildID).Collection(settingsCollection).Doc(autoRoleDoc).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get auto-role settings: %w", err)
	}

	var stored autoRoleSettingsDoc
	if err := doc.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auto-role settings: %w", err)
	}

	return &AutoRoleSettings{
		Enabled:   stored.Enabled,
		RoleIDs:   stored.RoleIDs,
		UpdatedAt: stored.UpdatedAt,
		UpdatedBy: stored.UpdatedBy,
	}, nil
}

func (s *FirestoreStore) SetAutoRole(ctx context.Context, guildID string, settings *AutoRoleSettings) error {
	stored := autoRoleSettingsDoc{
		Enabled:   settings.Enabled,
		RoleIDs:   settings.RoleIDs,
		UpdatedAt: settings.UpdatedAt,
		UpdatedBy: settings.UpdatedBy,
	}
	if _, err := s.guildDoc(guildID).Collection(settingsCollection).Doc(autoRoleDoc).Set(ctx, stored); err != nil {
		return fmt.Errorf("failed to store auto-role settings: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetIncomeShop(ctx context.Context, guildID string) (*IncomeShopSettings, error) {
	doc, err := s.guildDoc(guildID).Collection(settingsCollection).Doc(incomeShopDoc).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get income shop settings: %w", err)
	}

	var stored incomeShopSettingsDoc
	if err := doc.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal income shop settings: %w", err)
	}

	roles := make([]IncomeRole, 0, len(stored.Roles))
	for _, r := range stored.Roles {
		roles = append(roles, IncomeRole{
			ID:       r.ID,
			RoleID:   r.RoleID,
			RoleName: r.RoleName,
			Price:    r.Price,
			Income:   r.Income,
		})
	}

	return &IncomeShopSettings{
		Enabled:   stored.Enabled,
		Roles:     roles,
		UpdatedAt: stored.UpdatedAt,
		UpdatedBy: stored.UpdatedBy,
	}, nil
}

func (s *FirestoreStore) SetIncomeShop(ctx context.Context, guildID string, settings *IncomeShopSettings) error {
	roles := make([]incomeRoleDoc, 0, len(settings.Roles))
	for _, r := range settings.Roles {
		roles = append(roles, incomeRoleDoc{
			ID:       r.ID,
			RoleID:   r.RoleID,
			RoleName: r.RoleName,
			Price:    r.Price,
			Income:   r.Income,
		})
	}
	stored := incomeShopSettingsDoc{
		Enabled:   settings.Enabled,
		Roles:     roles,
		UpdatedAt: settings.UpdatedAt,
		UpdatedBy: settings.UpdatedBy,
	}
	if _, err := s.guildDoc(guildID).Collection(settingsCollection).Doc(incomeShopDoc).Set(ctx, stored); err != nil {
		return fmt.Errorf("failed to store income shop settings: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListMemberBalances(ctx context.Context, guildID string) ([]MemberBalance, error) {
	iter := s.guildDoc(guildID).Collection(membersCollection).Documents(ctx)
	defer iter.Stop()

	var balances []MemberBalance
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list member balances: %w", err)
		}

		var stored memberBalanceDoc
		if err := doc.DataTo(&stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal member balance: %w", err)
		}
		balances = append(balances, MemberBalance{
			UserID:  doc.Ref.ID,
			Balance: stored.Balance,
			Bank:    stored.Bank,
		})
	}
	return balances, nil
}

func (s *FirestoreStore) GetUsername(ctx context.Context, userID string) (string, error) {
	doc, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	var stored userDoc
	if err := doc.DataTo(&stored); err != nil {
		return "", fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return stored.Username, nil
}

func (s *FirestoreStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
