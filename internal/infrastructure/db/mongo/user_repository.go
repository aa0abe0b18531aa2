package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                primitive.ObjectID        `bson:"_id,omitempty"`
	FirstName         string                    `bson:"first_name"`
	LastName          string                    `bson:"last_name"`
	Email             string                    `bson:"email"`
	PasswordHash      string                    `bson:"password_hash"`
	PhoneNumber       string                    `bson:"phone_number,omitempty"`
	ProfileImage      string                    `bson:"profile_image,omitempty"`
	Role              string                    `bson:"role"`
	MedicalProfile    domain.MedicalProfile     `bson:"medical_profile"`
	EmergencyContacts []domain.EmergencyContact `bson:"emergency_contacts"`
	IsActive          bool                      `bson:"is_active"`
	LastLogin         *time.Time                `bson:"last_login,omitempty"`
	ResetTokenHash    string                    `bson:"reset_token_hash,omitempty"`
	ResetTokenExpires *time.Time                `bson:"reset_token_expires,omitempty"`
	CreatedAt         time.Time                 `bson:"created_at"`
	UpdatedAt         time.Time                 `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	contacts := u.EmergencyContacts
	if contacts == nil {
		contacts = []domain.EmergencyContact{}
	}
	return mongoUser{
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		PhoneNumber:       u.PhoneNumber,
		ProfileImage:      u.ProfileImage,
		Role:              u.Role,
		MedicalProfile:    u.MedicalProfile,
		EmergencyContacts: contacts,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (mu *mongoUser) toDomain() *domain.User {
	contacts := mu.EmergencyContacts
	if contacts == nil {
		contacts = []domain.EmergencyContact{}
	}
	return &domain.User{
		ID:                mu.ID.Hex(),
		FirstName:         mu.FirstName,
		LastName:          mu.LastName,
		Email:             mu.Email,
		PasswordHash:      mu.PasswordHash,
		PhoneNumber:       mu.PhoneNumber,
		ProfileImage:      mu.ProfileImage,
		Role:              mu.Role,
		MedicalProfile:    mu.MedicalProfile,
		EmergencyContacts: contacts,
		IsActive:          mu.IsActive,
		LastLogin:         utcPtr(mu.LastLogin),
		ResetTokenHash:    mu.ResetTokenHash,
		ResetTokenExpiry:  utcPtr(mu.ResetTokenExpires),
		CreatedAt:         mu.CreatedAt.UTC(),
		UpdatedAt:         mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, domain.ErrUserNotFound)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, domain.ErrUserNotFound)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"last_login": at.UTC()}})
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// FindByResetToken matches on the token hash and requires the expiry to be
// strictly in the future.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"reset_token_hash":    tokenHash,
		"reset_token_expires": bson.M{"$gt": now.UTC()},
	}
	return r.findOne(ctx, filter, domain.ErrInvalidResetToken)
}

// SetResetToken overwrites both reset fields in one update.
func (r *UserRepository) SetResetToken(ctx context.Context, id string, token domain.ResetToken) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"reset_token_hash":    token.Hash,
		"reset_token_expires": token.ExpiresAt.UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ConsumeResetToken swaps the password hash and drops the reset fields only
// while the same token is still stored and unexpired. A concurrent reissue or
// a second consume makes the filter miss.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, update := consumeResetUpdate(oid, tokenHash, passwordHash, now)
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidResetToken
	}
	return nil
}

func consumeResetUpdate(oid primitive.ObjectID, tokenHash, passwordHash string, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"_id":                 oid,
		"reset_token_hash":    tokenHash,
		"reset_token_expires": bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    now.UTC(),
		},
		"$unset": bson.M{
			"reset_token_hash":    "",
			"reset_token_expires": "",
		},
	}
	return filter, update
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	return r.updateAndReturn(ctx, id, bson.M{"$set": bson.M{
		"first_name":   update.FirstName,
		"last_name":    update.LastName,
		"phone_number": update.PhoneNumber,
		"updated_at":   time.Now().UTC(),
	}})
}

func (r *UserRepository) UpdateMedicalProfile(ctx context.Context, id string, profile domain.MedicalProfile) (*domain.User, error) {
	return r.updateAndReturn(ctx, id, bson.M{"$set": bson.M{
		"medical_profile": profile,
		"updated_at":      time.Now().UTC(),
	}})
}

func (r *UserRepository) AddEmergencyContact(ctx context.Context, id string, contact domain.EmergencyContact) ([]domain.EmergencyContact, error) {
	u, err := r.updateAndReturn(ctx, id, bson.M{
		"$push": bson.M{"emergency_contacts": contact},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return nil, err
	}
	return u.EmergencyContacts, nil
}

func (r *UserRepository) RemoveEmergencyContact(ctx context.Context, id, contactID string) ([]domain.EmergencyContact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "emergency_contacts.id": contactID}
	update := bson.M{
		"$pull": bson.M{"emergency_contacts": bson.M{"id": contactID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("remove emergency contact: %w", err)
	}
	return mu.toDomain().EmergencyContacts, nil
}

// EnsureIndexes creates the unique email index and a sparse index on the
// reset token hash.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reset_token_hash", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) updateAndReturn(ctx context.Context, id string, update bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
