package services

import "context"

type UserDataEraser interface {
	DeleteAllUserData() error
}

type CredentialClearer interface {
	ClearCredential(ctx context.Context) error
}

// ResetService is the only way back from a forgotten password: every log,
// cycle and link goes first, then the credential.
type ResetService struct {
	data        UserDataEraser
	credentials CredentialClearer
}

func NewResetService(data UserDataEraser, credentials CredentialClearer) *ResetService {
	return &ResetService{
		data:        data,
		credentials: credentials,
	}
}

// FactoryReset keeps the credential when the data wipe fails, so a partly
// reset store stays locked.
func (service *ResetService) FactoryReset(ctx context.Context) error {
	if err := service.data.DeleteAllUserData(); err != nil {
		return err
	}
	return service.credentials.ClearCredential(ctx)
}
