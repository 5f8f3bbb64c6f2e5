package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Ledger --dir ../domain/schedule --output domain/schedule --outpkg schedulemock --filename ledger_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/member --output domain/member --outpkg membermock --filename repository_mock.go
