package sql_test

import (
	"context"
	"errors"
	"push-registrar/internal/infra/sql"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type testRecord struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

var _ = ginkgo.Describe("ORM", func() {
	var (
		orm sql.ORM
		ctx context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		orm, err = sql.NewMemoryORM()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(orm.AutoMigrate(&testRecord{})).To(gomega.Succeed())
		ctx = context.Background()
	})

	ginkgo.It("should create and read back a record", func() {
		gomega.Expect(orm.WithContext(ctx).Create(&testRecord{ID: "1", Name: "first"}).Error()).To(gomega.Succeed())

		var found testRecord
		err := orm.WithContext(ctx).Where("name = ?", "first").First(&found).Error()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(found.ID).To(gomega.Equal("1"))
	})

	ginkgo.It("should map a missing record to ErrRecordNotFound", func() {
		var found testRecord
		err := orm.WithContext(ctx).Where("id = ?", "missing").First(&found).Error()
		gomega.Expect(err).To(gomega.MatchError(sql.ErrRecordNotFound))
	})

	ginkgo.It("should save and delete records", func() {
		record := testRecord{ID: "1", Name: "first"}
		gomega.Expect(orm.WithContext(ctx).Save(&record).Error()).To(gomega.Succeed())

		record.Name = "renamed"
		gomega.Expect(orm.WithContext(ctx).Save(&record).Error()).To(gomega.Succeed())

		var found testRecord
		gomega.Expect(orm.WithContext(ctx).First(&found, "id = ?", "1").Error()).To(gomega.Succeed())
		gomega.Expect(found.Name).To(gomega.Equal("renamed"))

		gomega.Expect(orm.WithContext(ctx).Where("id = ?", "1").Delete(&testRecord{}).Error()).To(gomega.Succeed())
		gomega.Expect(orm.WithContext(ctx).First(&found, "id = ?", "1").Error()).To(gomega.MatchError(sql.ErrRecordNotFound))
	})

	ginkgo.It("should roll back a failed transaction", func() {
		err := orm.Transaction(func(tx sql.ORM) error {
			if err := tx.Create(&testRecord{ID: "1", Name: "first"}).Error(); err != nil {
				return err
			}
			return errors.New("abort")
		})
		gomega.Expect(err).To(gomega.MatchError("abort"))

		var found testRecord
		gomega.Expect(orm.WithContext(ctx).First(&found, "id = ?", "1").Error()).To(gomega.MatchError(sql.ErrRecordNotFound))
	})

	ginkgo.It("should keep memory databases apart", func() {
		other, err := sql.NewMemoryORM()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(other.AutoMigrate(&testRecord{})).To(gomega.Succeed())

		gomega.Expect(orm.WithContext(ctx).Create(&testRecord{ID: "1"}).Error()).To(gomega.Succeed())

		var found testRecord
		gomega.Expect(other.WithContext(ctx).First(&found, "id = ?", "1").Error()).To(gomega.MatchError(sql.ErrRecordNotFound))
	})

	ginkgo.It("should reject an unknown driver", func() {
		_, err := sql.NewORM("oracle", "")
		gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("unknown database driver")))
	})
})
