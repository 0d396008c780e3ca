package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// userDocument is the BSON shape of a user in the users collection.
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Token        string             `bson:"token,omitempty"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Token:        d.Token,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoUserRepository is a MongoDB implementation of UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(collection *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{
		collection: collection,
	}
}

// EnsureIndexes creates the unique email index. It is idempotent.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	startTime := time.Now()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: constants.ColumnEmail, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(constants.IndexUsersEmail),
	}
	_, err := r.collection.Indexes().CreateOne(ctx, model)

	utils.LogStoreOperation(r.collection.Name(), "create_index", time.Since(startTime), err)

	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// Create inserts a new user document. The identifier is assigned by the store.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = constants.RoleUser
	}

	doc := userDocument{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Token:        user.Token,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)

	utils.LogStoreOperation(r.collection.Name(), "insert_one", time.Since(startTime), err)

	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError(constants.MsgUserAlreadyExists, constants.ColumnEmail)
		}
		return utils.NewStoreError(fmt.Errorf("failed to create user: %w", err))
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by its hex object ID. Malformed IDs are not found.
func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
	}
	return r.findOne(ctx, bson.M{constants.ColumnMongoID: oid})
}

// GetByEmail retrieves a user by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{constants.ColumnEmail: email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	startTime := time.Now()

	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.LogStoreOperation(r.collection.Name(), "find_one", time.Since(startTime), nil)
		return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
	}
	utils.LogStoreOperation(r.collection.Name(), "find_one", time.Since(startTime), err)
	if err != nil {
		return nil, utils.NewStoreError(fmt.Errorf("failed to find user: %w", err))
	}

	return doc.toModel(), nil
}

// UpdateByID applies the non-nil fields of update atomically and returns the
// document as it is after the update.
func (r *MongoUserRepository) UpdateByID(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
	}

	set := bson.M{constants.ColumnUpdatedAt: time.Now().UTC()}
	if update.PasswordHash != nil {
		set[constants.ColumnPasswordHash] = *update.PasswordHash
	}
	if update.Token != nil {
		set[constants.ColumnToken] = *update.Token
	}

	startTime := time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{constants.ColumnMongoID: oid}, bson.M{"$set": set}, opts).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.LogStoreOperation(r.collection.Name(), "find_one_and_update", time.Since(startTime), nil)
		return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
	}
	utils.LogStoreOperation(r.collection.Name(), "find_one_and_update", time.Since(startTime), err)
	if err != nil {
		return nil, utils.NewStoreError(fmt.Errorf("failed to update user: %w", err))
	}

	log.Info().
		Str("user_id", id).
		Bool("password_changed", update.PasswordHash != nil).
		Bool("token_changed", update.Token != nil).
		Msg("User updated")

	return doc.toModel(), nil
}

var (
	_ UserRepository = (*MongoUserRepository)(nil)
	_ UserRepository = (*SQLUserRepository)(nil)
)
