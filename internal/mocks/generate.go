package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/fact --output domain/fact --outpkg factmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Loader --dir ../domain/source --output domain/source --outpkg sourcemock --filename loader_mock.go
