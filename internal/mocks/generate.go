package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../../external/statsbomb --output external/statsbomb --outpkg statsbombmock --filename source_mock.go
