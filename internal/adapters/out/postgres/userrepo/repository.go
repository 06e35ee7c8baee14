package userrepo

import (
	"context"
	"errors"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add inserts a user. The unique phone index turns a second registration into a conflict.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("phone", dto.Phone, err)
		}
		return pgerr.Wrap("add user", err)
	}
	return nil
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "user", id.String(), "id = ?", id.Google())
}

func (r *GormUserRepository) GetByPhone(ctx context.Context, phone kernel.Phone) (*user.User, error) {
	return r.first(ctx, "user", phone.String(), "phone = ?", phone.String())
}

func (r *GormUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&UserDTO{}, "id = ?", id.Google())
	if result.Error != nil {
		return pgerr.Wrap("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", id.String())
	}
	return nil
}

func (r *GormUserRepository) List(ctx context.Context, role user.Role) ([]*user.User, error) {
	q := r.db.WithContext(ctx).Model(&UserDTO{}).Order("name").Order("id")
	if role != "" {
		q = q.Where("role = ?", string(role))
	}

	var dtos []UserDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, pgerr.Wrap("list users", err)
	}

	users := make([]*user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserDTO{}).Count(&n).Error; err != nil {
		return 0, pgerr.Wrap("count users", err)
	}
	return n, nil
}

func (r *GormUserRepository) first(ctx context.Context, param, key string, query string, args ...any) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, key)
		}
		return nil, pgerr.Wrap("get user", err)
	}
	return toDomain(dto)
}
