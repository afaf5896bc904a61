package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type packageRepository struct {
	db *sqlx.DB
}

type transactionRepository struct {
	db *sqlx.DB
}

type customerRepository struct {
	db *sqlx.DB
}

type settingsRepository struct {
	db *sqlx.DB
}

type userRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewPackageRepository(db *sqlx.DB) repository.PackageRepository {
	return &packageRepository{db: db}
}

func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func NewCustomerRepository(db *sqlx.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func NewSettingsRepository(db *sqlx.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
