// Package mocks provides shared mock implementations for tests.
//
// Two styles are used, depending on what a test needs to check:
//
//   - testify mocks (TestifyMock*) record calls and are configured with
//     .On(...).Return(...), then verified with AssertExpectations.
//   - function-field mocks (Mock*) return fixed values or delegate to an
//     optional function, for collaborators whose calls are not asserted.
//
// Usage:
//
//	accounts := new(mocks.TestifyMockAccountStore)
//	accounts.On("GetByID", mock.Anything, id).Return(nil, store.ErrAccountNotFound)
//
//	tokens := &mocks.MockTokenIssuer{Token: "signed-token"}
package mocks
