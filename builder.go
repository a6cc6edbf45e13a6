package authkit

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authkit/domain"
	"github.com/MrEthical07/authkit/intent"
	"github.com/MrEthical07/authkit/jwt"
	"github.com/MrEthical07/authkit/otp"
	"github.com/MrEthical07/authkit/password"
	"github.com/MrEthical07/authkit/session"
)

// Builder assembles an Engine. Every port is optional: anything not supplied
// is either defaulted from the Redis client (sessions, OTP codes, intents),
// defaulted from config (the Argon2 hasher), or left unset so the flows that
// need it fail with ErrFeatureNotConfigured.
type Builder struct {
	config Config
	redis  *redis.Client

	userRepo   domain.UserRepository
	userReader domain.UserReader
	userWriter domain.UserWriter
	hasher     domain.PasswordHasher
	sessions   domain.SessionService
	otpManager domain.OTPManager
	otpSender  otp.Sender
	otpStore   domain.OTPStore
	intents    domain.UserIDIntentStore
	regIntents domain.RegistrationIntentStore
	eventSink  EventSink

	built bool
}

// New returns a Builder seeded with the default config.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole config. Combine with ConfigFromEnv to layer
// environment overrides on the defaults.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client backing the default session, OTP, and intent
// stores. Not needed when all three are supplied explicitly.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserRepository supplies a unified credential store serving both facets.
// Mutually exclusive with WithUserReader/WithUserWriter.
func (b *Builder) WithUserRepository(repo domain.UserRepository) *Builder {
	b.userRepo = repo
	return b
}

// WithUserReader supplies the read facet alone, for read-replica topologies.
func (b *Builder) WithUserReader(r domain.UserReader) *Builder {
	b.userReader = r
	return b
}

// WithUserWriter supplies the write facet alone.
func (b *Builder) WithUserWriter(w domain.UserWriter) *Builder {
	b.userWriter = w
	return b
}

// WithPasswordHasher overrides the default Argon2id hasher.
func (b *Builder) WithPasswordHasher(h domain.PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithSessionService overrides the default Redis-backed session store.
func (b *Builder) WithSessionService(s domain.SessionService) *Builder {
	b.sessions = s
	return b
}

// WithOTPManager supplies a complete OTP manager. Mutually exclusive with
// WithOTPSender.
func (b *Builder) WithOTPManager(m domain.OTPManager) *Builder {
	b.otpManager = m
	return b
}

// WithOTPSender supplies only the delivery transport; the default manager
// generates codes with the configured digit count and hands them to sender.
func (b *Builder) WithOTPSender(sender otp.Sender) *Builder {
	b.otpSender = sender
	return b
}

// WithOTPStore overrides the default Redis-backed consuming code store.
func (b *Builder) WithOTPStore(s domain.OTPStore) *Builder {
	b.otpStore = s
	return b
}

// WithIntentStore overrides the default user-id intent store.
func (b *Builder) WithIntentStore(s domain.UserIDIntentStore) *Builder {
	b.intents = s
	return b
}

// WithRegistrationIntentStore overrides the default registration intent store.
func (b *Builder) WithRegistrationIntentStore(s domain.RegistrationIntentStore) *Builder {
	b.regIntents = s
	return b
}

// WithEventSink receives security events. Events must also be enabled in the
// config for the dispatcher to start.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	return b
}

// Build validates the configuration, fills in defaults, and returns the
// engine. A missing port is never a build error; supplying a unified
// repository together with a split facet is.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userRepo != nil && (b.userReader != nil || b.userWriter != nil) {
		return nil, errors.New("WithUserRepository conflicts with WithUserReader/WithUserWriter")
	}
	reader := b.userReader
	writer := b.userWriter
	if b.userRepo != nil {
		reader = b.userRepo
		writer = b.userRepo
	}

	hasher := b.hasher
	if hasher == nil {
		ph, err := password.NewArgon2(password.Argon2Config{
			Memory:      cfg.Password.Memory,
			Time:        cfg.Password.Time,
			Parallelism: cfg.Password.Parallelism,
			SaltLength:  cfg.Password.SaltLength,
			KeyLength:   cfg.Password.KeyLength,
		})
		if err != nil {
			return nil, err
		}
		hasher = ph
	}

	if b.otpManager != nil && b.otpSender != nil {
		return nil, errors.New("WithOTPManager conflicts with WithOTPSender")
	}
	otpManager := b.otpManager
	if otpManager == nil && b.otpSender != nil {
		m, err := otp.NewManager(cfg.OTP.Digits, b.otpSender)
		if err != nil {
			return nil, err
		}
		otpManager = m
	}

	sessions := b.sessions
	otpStore := b.otpStore
	intents := b.intents
	regIntents := b.regIntents

	if b.redis != nil {
		if sessions == nil {
			jm, err := jwt.NewManager(jwt.Config{
				SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
				PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
				PublicKey:     cloneBytes(cfg.JWT.PublicKey),
				Issuer:        cfg.JWT.Issuer,
				TTL:           cfg.JWT.TTL,
				Leeway:        cfg.JWT.Leeway,
			})
			if err != nil {
				return nil, err
			}
			sessions = session.NewStore(b.redis, jm, cfg.Session.RedisPrefix, cfg.Session.TTL)
		}
		if otpStore == nil {
			otpStore = otp.NewStore(b.redis, cfg.OTP.RedisPrefix, cfg.OTP.TTL)
		}
		if intents == nil {
			intents = intent.NewUserIDStore(b.redis, cfg.Intent.RedisPrefix, cfg.Intent.TTL)
		}
		if regIntents == nil {
			regIntents = intent.NewRegistrationStore(b.redis, cfg.Intent.RedisPrefix, cfg.Intent.TTL)
		}
	}

	engine := &Engine{
		config:     cfg,
		userReader: reader,
		userWriter: writer,
		sessions:   sessions,
		hasher:     hasher,
		otpManager: otpManager,
		otpStore:   otpStore,
		intents:    intents,
		regIntents: regIntents,
		events:     newEventDispatcher(cfg.Events, b.eventSink),
	}

	b.built = true

	return engine, nil
}
