package auth_test

import (
	"testing"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

var _ = Describe("Password hashing", func() {
	Describe("Argon2Hasher", func() {
		var hasher *auth.Argon2Hasher

		BeforeEach(func() {
			hasher = &auth.Argon2Hasher{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLength: 16, SaltLength: 16}
		})

		It("should produce a repeatable hash for the same salt", func() {
			salt, err := hasher.NewSalt()
			Expect(err).NotTo(HaveOccurred())
			Expect(salt).To(HaveLen(32))

			first, err := hasher.Hash("secret", salt)
			Expect(err).NotTo(HaveOccurred())
			second, err := hasher.Hash("secret", salt)
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal(second))
			Expect(first).To(HavePrefix("$argon2id$"))
		})

		It("should change the hash when the salt changes", func() {
			a, _ := hasher.Hash("secret", "salt-a")
			b, _ := hasher.Hash("secret", "salt-b")
			Expect(a).NotTo(Equal(b))
		})

		It("should verify only the right password and salt", func() {
			hash, err := hasher.Hash("secret", "pepper")
			Expect(err).NotTo(HaveOccurred())

			Expect(hasher.Verify(hash, "secret", "pepper")).To(BeTrue())
			Expect(hasher.Verify(hash, "Secret", "pepper")).To(BeFalse())
			Expect(hasher.Verify(hash, "secret", "other")).To(BeFalse())
			Expect(hasher.Verify("not-a-hash", "secret", "pepper")).To(BeFalse())
		})

		It("should verify hashes made with other parameters", func() {
			hash, err := hasher.Hash("secret", "pepper")
			Expect(err).NotTo(HaveOccurred())

			stronger := &auth.Argon2Hasher{Time: 2, MemoryKiB: 16 * 1024, Threads: 2, KeyLength: 32, SaltLength: 16}
			Expect(stronger.Verify(hash, "secret", "pepper")).To(BeTrue())
		})

		It("should require a salt", func() {
			_, err := hasher.Hash("secret", "")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("BcryptHasher", func() {
		It("should verify the salted password", func() {
			hasher := &auth.BcryptHasher{Cost: 10, SaltLength: 16}
			hash, err := hasher.Hash("secret", "pepper")
			Expect(err).NotTo(HaveOccurred())

			Expect(hasher.Verify(hash, "secret", "pepper")).To(BeTrue())
			Expect(hasher.Verify(hash, "secret", "salt")).To(BeFalse())
		})
	})

	Describe("NewHasher", func() {
		It("should default to argon2id", func() {
			hasher, err := auth.NewHasher(internal.PasswordConfig{})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasher).To(BeAssignableToTypeOf(&auth.Argon2Hasher{}))
		})

		It("should build bcrypt on request", func() {
			hasher, err := auth.NewHasher(internal.PasswordConfig{Algorithm: "bcrypt", BcryptCost: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(hasher).To(BeAssignableToTypeOf(&auth.BcryptHasher{}))
		})

		It("should reject unknown algorithms", func() {
			_, err := auth.NewHasher(internal.PasswordConfig{Algorithm: "md5"})
			Expect(err).To(MatchError(ContainSubstring("md5")))
		})
	})

	It("should generate distinct random tokens", func() {
		a, err := auth.GenerateRandomToken(16)
		Expect(err).NotTo(HaveOccurred())
		b, err := auth.GenerateRandomToken(16)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})
})
