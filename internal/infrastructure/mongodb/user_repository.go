package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre MongoDB.
type UserRepo struct {
	col *collection[entity.User]
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db *mongo.Database) *UserRepo {
	return &UserRepo{col: newCollection(db, colUsers,
		func(u *entity.User) string { return u.ID },
		func(u *entity.User) *int64 { return &u.Version })}
}

// Create persiste un nuevo usuario. Email, username o teléfono repetidos son Conflict.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.col.insert(ctx, user)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.col.byID(ctx, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.col.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.col.findOne(ctx, bson.M{"phoneNumber": phone})
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.col.replace(ctx, user)
}

// List filtra por puesto, verificación y texto libre, ordenado por apellido.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int64, error) {
	q := newFilter().
		eqIf("jobRole", f.JobRole).
		search(f.Search, "firstName", "lastName", "email", "username")
	if f.Verified != nil {
		q.eq("isVerified", *f.Verified)
	}
	return r.col.page(ctx, q.build(), bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}}, f.Limit, f.Offset)
}

func (r *UserRepo) ListByJobRole(ctx context.Context, jobRole string) ([]*entity.User, error) {
	return r.col.find(ctx, bson.M{"jobRole": jobRole}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

// RemoveDeviceTokens $pull directo: no compite con las escrituras versionadas del perfil.
func (r *UserRepo) RemoveDeviceTokens(ctx context.Context, userID string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := r.col.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"deviceTokens": bson.M{"$in": tokens}}})
	if err != nil {
		return fmt.Errorf("pull device tokens: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.col.delete(ctx, id)
}
