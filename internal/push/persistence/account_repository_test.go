package persistence_test

import (
	"context"
	"push-registrar/internal/infra/sql"
	"push-registrar/internal/infra/utils"
	"push-registrar/internal/push/domain"
	"push-registrar/internal/push/persistence"
	"push-registrar/internal/push/usecases"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AccountRepository", func() {
	var (
		repository *persistence.SimpleAccountRepository
		ctx        context.Context
	)

	newAccount := func(accountType domain.AccountType, accessToken string) domain.Account {
		account, err := domain.NewAccountBuilder().
			WithAccountType(accountType).
			WithInstanceURL("https://acme.my.example.com").
			WithTokens(accessToken, "refresh-1").
			WithOAuthClient("client-1", "https://login.example.com/services/oauth2/token").
			WithUserID("005000000000001").
			Build()
		Expect(err).NotTo(HaveOccurred())
		return account
	}

	BeforeEach(func() {
		orm, err := sql.NewMemoryORM()
		Expect(err).NotTo(HaveOccurred())

		repository, err = persistence.NewAccountRepository(orm)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("should report a missing account", func() {
		_, err := repository.GetByAccountType(ctx, "salesforce")
		Expect(err).To(MatchError(usecases.ErrAccountNotFound))
	})

	It("should store and load an account", func() {
		account := newAccount("salesforce", "access-1")
		Expect(repository.Upsert(ctx, account)).To(Succeed())

		loaded, err := repository.GetByAccountType(ctx, "salesforce")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ID).To(Equal(account.ID))
		Expect(loaded.InstanceURL).To(Equal(account.InstanceURL))
		Expect(loaded.AccessToken).To(Equal("access-1"))
		Expect(loaded.RefreshToken).To(Equal("refresh-1"))
		Expect(loaded.ClientID).To(Equal("client-1"))
		Expect(loaded.UserID).To(Equal("005000000000001"))
	})

	It("should update the tokens of the same account", func() {
		account := newAccount("salesforce", "access-1")
		Expect(repository.Upsert(ctx, account)).To(Succeed())

		account.AccessToken = "access-2"
		account.UpdatedAt = utils.Time{Time: time.Now().Add(time.Minute)}
		Expect(repository.Upsert(ctx, account)).To(Succeed())

		loaded, err := repository.GetByAccountType(ctx, "salesforce")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ID).To(Equal(account.ID))
		Expect(loaded.AccessToken).To(Equal("access-2"))
		Expect(loaded.UpdatedAt.Time).To(BeTemporally("~", account.UpdatedAt.Time, time.Millisecond))
	})

	It("should keep a single account per type", func() {
		first := newAccount("salesforce", "access-1")
		second := newAccount("salesforce", "access-2")
		Expect(repository.Upsert(ctx, first)).To(Succeed())
		Expect(repository.Upsert(ctx, second)).To(Succeed())

		loaded, err := repository.GetByAccountType(ctx, "salesforce")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ID).To(Equal(second.ID))
	})

	It("should keep account types apart", func() {
		Expect(repository.Upsert(ctx, newAccount("salesforce", "access-1"))).To(Succeed())
		Expect(repository.Upsert(ctx, newAccount("community", "access-2"))).To(Succeed())

		loaded, err := repository.GetByAccountType(ctx, "community")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.AccessToken).To(Equal("access-2"))
	})

	It("should delete an account", func() {
		Expect(repository.Upsert(ctx, newAccount("salesforce", "access-1"))).To(Succeed())
		Expect(repository.DeleteByAccountType(ctx, "salesforce")).To(Succeed())

		_, err := repository.GetByAccountType(ctx, "salesforce")
		Expect(err).To(MatchError(usecases.ErrAccountNotFound))
		Expect(repository.DeleteByAccountType(ctx, "salesforce")).To(MatchError(usecases.ErrAccountNotFound))
	})
})
