package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/internal/domain/repository"
)

var (
	_ repository.CourseRepository     = (*CourseRepo)(nil)
	_ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)
)

// CourseRepo cursos sobre MongoDB.
type CourseRepo struct {
	col *collection[entity.Course]
}

func NewCourseRepository(db *mongo.Database) *CourseRepo {
	return &CourseRepo{col: newCollection(db, colCourses,
		func(c *entity.Course) string { return c.ID },
		func(c *entity.Course) *int64 { return &c.Version })}
}

func (r *CourseRepo) Create(ctx context.Context, c *entity.Course) error { return r.col.insert(ctx, c) }

func (r *CourseRepo) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	return r.col.byID(ctx, id)
}

func (r *CourseRepo) Update(ctx context.Context, c *entity.Course) error { return r.col.replace(ctx, c) }

func (r *CourseRepo) Delete(ctx context.Context, id string) error { return r.col.delete(ctx, id) }

func (r *CourseRepo) List(ctx context.Context, f repository.CourseFilter) ([]*entity.Course, int64, error) {
	q := newFilter().eqIf("category", f.Category)
	if f.ActiveOnly {
		q.eq("isActive", true)
	}
	return r.col.page(ctx, q.build(), bson.D{{Key: "title", Value: 1}}, f.Limit, f.Offset)
}

// EnrollmentRepo inscripciones sobre MongoDB.
type EnrollmentRepo struct {
	col *collection[entity.Enrollment]
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepo {
	return &EnrollmentRepo{col: newCollection(db, colEnrollments,
		func(e *entity.Enrollment) string { return e.ID },
		func(e *entity.Enrollment) *int64 { return &e.Version })}
}

func (r *EnrollmentRepo) Create(ctx context.Context, e *entity.Enrollment) error {
	return r.col.insert(ctx, e)
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	return r.col.byID(ctx, id)
}

func (r *EnrollmentRepo) Update(ctx context.Context, e *entity.Enrollment) error {
	return r.col.replace(ctx, e)
}

func (r *EnrollmentRepo) GetOpenByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	q := newFilter().eq("userId", userID).eq("courseId", courseID).ne("status", entity.EnrollmentCancelled)
	return r.col.findOne(ctx, q.build())
}

func (r *EnrollmentRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*entity.Enrollment, error) {
	return r.col.findOne(ctx, bson.M{"paymentIntentId": intentID})
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID, status string) ([]*entity.Enrollment, error) {
	q := newFilter().eq("userId", userID).eqIf("status", status)
	return r.col.find(ctx, q.build(), options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}}))
}
