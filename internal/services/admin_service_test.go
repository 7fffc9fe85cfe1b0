package services

import (
	"context"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/policy"
	"github.com/rafabene/gearshare-backend/internal/domain/repositories"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/logging"
)

var _ = Describe("AdminService", func() {
	var (
		ctx       context.Context
		db        *store
		images    *memImages
		events    *recorder
		published *publisher
		service   *AdminService
		root      *entities.User
		admin     *entities.User
		grant     policy.AdminGrant
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = openStore()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.close)

		images = newMemImages()
		events = newRecorder()
		published = &publisher{}

		trail := NewAuditTrail(db.audit, published, logging.Discard())
		service = NewAdminService(db.users, db.listings, trail, images, db.uow, events, "admin", logging.Discard())

		root = mustSeed(db.seedUser("admin", entities.RoleAdmin))
		admin = mustSeed(db.seedUser("moshe", entities.RoleAdmin))

		grant, err = policy.RequireAdmin(admin)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("concessão", func() {
		It("recusa a concessão zero", func() {
			_, err := service.Stats(ctx, policy.AdminGrant{})
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			_, err = service.ApproveVolunteer(ctx, policy.AdminGrant{}, admin.ID)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))

			_, err = service.AuditLog(ctx, policy.AdminGrant{}, 10)
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
		})
	})

	Describe("ApproveVolunteer", func() {
		It("promove pendente a voluntário verificado e audita", func() {
			pending := mustSeed(db.seedUser("dana", entities.RolePendingVolunteer))

			user, err := service.ApproveVolunteer(ctx, grant, pending.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleVerifiedVolunteer))
			Expect(user.ApprovedBy).To(HaveValue(Equal(admin.ID)))
			Expect(user.ApprovedAt).NotTo(BeNil())

			entries, err := service.AuditLog(ctx, grant, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Action).To(Equal(entities.AuditApproveVolunteer))
			Expect(entries[0].TargetUserID).To(HaveValue(Equal(pending.ID)))
			Expect(entries[0].Details).To(HaveKeyWithValue("old_role", "pending_volunteer"))
			Expect(entries[0].Details).To(HaveKeyWithValue("new_role", "verified_volunteer"))

			Expect(events.adminCount(entities.AuditApproveVolunteer)).To(Equal(1))
			Expect(published.published()).To(HaveLen(1))
			Expect(published.published()[0].Admin.FullName).To(Equal(admin.FullName))
		})

		It("rejeita quem não está pendente", func() {
			plain := mustSeed(db.seedUser("plain", entities.RoleUser))

			_, err := service.ApproveVolunteer(ctx, grant, plain.ID)
			Expect(err).To(MatchError(domainerrors.ErrNotPendingVolunteer))

			entries, err := service.AuditLog(ctx, grant, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("usuário inexistente", func() {
			_, err := service.ApproveVolunteer(ctx, grant, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("aprovações concorrentes aplicam uma única vez", func() {
			pending := mustSeed(db.seedUser("dana", entities.RolePendingVolunteer))

			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				applied int
				refused int
			)
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := service.ApproveVolunteer(ctx, grant, pending.ID)
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						applied++
					} else {
						Expect(err).To(MatchError(domainerrors.ErrNotPendingVolunteer))
						refused++
					}
				}()
			}
			wg.Wait()

			Expect(applied).To(Equal(1))
			Expect(refused).To(Equal(4))
			Expect(events.adminCount(entities.AuditApproveVolunteer)).To(Equal(1))
		})
	})

	Describe("RejectVolunteer", func() {
		It("volta o pendente para usuário e limpa a declaração", func() {
			pending := mustSeed(db.seedUser("dana", entities.RolePendingVolunteer))

			user, err := service.RejectVolunteer(ctx, grant, pending.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleUser))
			Expect(user.VolunteerDeclaration).To(BeFalse())
		})

		It("não rejeita voluntário já verificado", func() {
			verified := mustSeed(db.seedUser("yael", entities.RoleVerifiedVolunteer))

			_, err := service.RejectVolunteer(ctx, grant, verified.ID)
			Expect(err).To(MatchError(domainerrors.ErrNotPendingVolunteer))
		})
	})

	Describe("PromoteAdmin", func() {
		DescribeTable("promove qualquer papel não admin",
			func(role entities.Role) {
				user := mustSeed(db.seedUser("candidate", role))

				promoted, err := service.PromoteAdmin(ctx, grant, user.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(promoted.Role).To(Equal(entities.RoleAdmin))
			},
			Entry("usuário", entities.RoleUser),
			Entry("pendente", entities.RolePendingVolunteer),
			Entry("verificado", entities.RoleVerifiedVolunteer),
		)

		It("admin já é admin", func() {
			_, err := service.PromoteAdmin(ctx, grant, root.ID)
			Expect(err).To(MatchError(domainerrors.ErrAlreadyAdmin))
		})
	})

	Describe("DemoteAdmin", func() {
		It("rebaixa admin para voluntário verificado", func() {
			other := mustSeed(db.seedUser("other", entities.RoleAdmin))

			user, err := service.DemoteAdmin(ctx, grant, other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleVerifiedVolunteer))
		})

		It("não rebaixa a si mesmo", func() {
			_, err := service.DemoteAdmin(ctx, grant, admin.ID)
			Expect(err).To(MatchError(domainerrors.ErrSelfAction))
		})

		It("não rebaixa a conta protegida", func() {
			_, err := service.DemoteAdmin(ctx, grant, root.ID)
			Expect(err).To(MatchError(domainerrors.ErrProtectedAccount))

			current, err := db.users.FindByID(ctx, root.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.Role).To(Equal(entities.RoleAdmin))
		})

		It("alvo que não é admin", func() {
			plain := mustSeed(db.seedUser("plain", entities.RoleUser))

			_, err := service.DemoteAdmin(ctx, grant, plain.ID)
			Expect(err).To(MatchError(domainerrors.ErrNotAdmin))
		})
	})

	Describe("DeleteUser", func() {
		It("remove usuário, anúncios e imagens preservando a auditoria", func() {
			victim := mustSeed(db.seedUser("victim", entities.RolePendingVolunteer))
			ref := "/images/uploaded/listing-1.png"
			images.files[ref] = []byte("png")
			listing := mustSeed(db.seedListing(victim.ID, "Warm coat", ref))

			_, err := service.ApproveVolunteer(ctx, grant, victim.ID)
			Expect(err).NotTo(HaveOccurred())

			deleted, err := service.DeleteUser(ctx, grant, victim.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.ID).To(Equal(victim.ID))

			gone, err := db.users.FindByID(ctx, victim.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(gone).To(BeNil())

			found, err := db.listings.FindByID(ctx, listing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeNil())
			Expect(images.wasDeleted(ref)).To(BeTrue())

			entries, err := service.AuditLog(ctx, grant, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))

			byAction := map[entities.AuditAction]*entities.AuditLogEntry{}
			for _, entry := range entries {
				byAction[entry.Action] = entry
			}

			removal := byAction[entities.AuditDeleteUser]
			Expect(removal).NotTo(BeNil())
			Expect(removal.TargetUserID).To(BeNil())
			Expect(removal.Details).To(HaveKeyWithValue("deleted_user_id", victim.ID))
			Expect(removal.Details).To(HaveKeyWithValue("deleted_user_name", victim.FullName))

			approval := byAction[entities.AuditApproveVolunteer]
			Expect(approval).NotTo(BeNil())
			Expect(approval.TargetUserID).To(BeNil())
			Expect(approval.AdminID).To(HaveValue(Equal(admin.ID)))
		})

		It("não remove a si mesmo nem a conta protegida", func() {
			_, err := service.DeleteUser(ctx, grant, admin.ID)
			Expect(err).To(MatchError(domainerrors.ErrSelfAction))

			_, err = service.DeleteUser(ctx, grant, root.ID)
			Expect(err).To(MatchError(domainerrors.ErrProtectedAccount))
		})

		It("usuário inexistente", func() {
			_, err := service.DeleteUser(ctx, grant, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("consultas", func() {
		BeforeEach(func() {
			mustSeed(db.seedUser("pending_one", entities.RolePendingVolunteer))
			mustSeed(db.seedUser("pending_two", entities.RolePendingVolunteer))
			verified := mustSeed(db.seedUser("verified", entities.RoleVerifiedVolunteer))
			mustSeed(db.seedUser("plain", entities.RoleUser))
			mustSeed(db.seedListing(verified.ID, "Boots"))
		})

		It("Stats conta por papel", func() {
			stats, err := service.Stats(ctx, grant)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stats).To(Equal(Stats{
				TotalUsers:         6,
				PendingVolunteers:  2,
				VerifiedVolunteers: 1,
				Admins:             2,
				RegularUsers:       1,
				ActiveListings:     1,
			}))
		})

		It("PendingVolunteers lista somente pendentes", func() {
			users, err := service.PendingVolunteers(ctx, grant)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			for _, u := range users {
				Expect(u.Role).To(Equal(entities.RolePendingVolunteer))
			}
		})

		It("ListUsers combina papel e busca", func() {
			role := entities.RolePendingVolunteer
			users, err := service.ListUsers(ctx, grant, repositories.UserFilters{Role: &role, Search: "  two "})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Username).To(Equal("pending_two"))
		})
	})
})
