// src/services/upload_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/username/zeitan/backend/src/logger"
	"github.com/username/zeitan/backend/src/parsers"
	"github.com/username/zeitan/backend/src/parsers/csvutil"
)

type uploadServiceImpl struct{}

func NewUploadService() UploadService {
	return &uploadServiceImpl{}
}

func (s *uploadServiceImpl) ParseUpload(ctx context.Context, file io.Reader, exchange string) (*ParseResult, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("error reading uploaded file: %w", err)
	}

	var parser parsers.Parser
	if exchange == "" {
		parser, err = parsers.DetectParserFromContent(data)
		if errors.Is(err, csvutil.ErrEmptyFile) {
			return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
	} else {
		parser, err = parsers.GetParser(exchange)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	txs, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		log.Warn("Parser rejected file", "exchange", parser.Exchange(), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	log.Info("Parsed exchange export",
		"exchange", parser.Exchange(),
		"detected", exchange == "",
		"transactions", len(txs),
		"bytes", len(data),
		"duration", time.Since(start))
	return &ParseResult{Exchange: parser.Exchange(), Transactions: txs}, nil
}
