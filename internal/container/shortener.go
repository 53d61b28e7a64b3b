package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/tinylink/internal/clicks"
	"github.com/serroba/tinylink/internal/messaging"
	"github.com/serroba/tinylink/internal/shortener"
	"go.uber.org/zap"
)

// PublisherGroupPackage provides the Redis stream publisher.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     conn.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ClicksPackage provides the click recorder used by the resolver.
func ClicksPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.ClickRecorder, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.ClickDelivery {
		case ClickDeliveryInline, "":
			return do.MustInvoke[shortener.Repository](i), nil
		case ClickDeliveryStream:
			// The consumer applies clicks from another process and must see the same store.
			if opts.Store == StoreMemory || opts.Store == "" {
				return nil, fmt.Errorf("click delivery %q needs a shared store, got %q", opts.ClickDelivery, opts.Store)
			}

			group, err := do.Invoke[*messaging.PublisherGroup](i)
			if err != nil {
				return nil, err
			}

			publish := messaging.NewPublishFunc[clicks.LinkVisitedEvent](
				group.Publisher(), clicks.TopicLinkVisited, clicks.EventTypeLinkVisited,
			)

			return clicks.NewStreamRecorder(publish), nil
		default:
			return nil, fmt.Errorf("unknown click delivery %q", opts.ClickDelivery)
		}
	})
}

// ShortenerPackage provides the link service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		repo := do.MustInvoke[shortener.Repository](i)

		recorder, err := do.Invoke[shortener.ClickRecorder](i)
		if err != nil {
			return nil, err
		}

		generator, err := shortener.NewCodeGenerator()
		if err != nil {
			return nil, err
		}

		allocator := shortener.NewAllocator(repo, generator, opts.MaxAttempts)
		resolver := shortener.NewResolver(repo, recorder, logger)

		return shortener.NewService(repo, allocator, resolver), nil
	})
}

// ConsumerGroupPackage provides the consumers applying stream clicks to the
// primary store.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Store == StoreMemory || opts.Store == "" {
			return nil, fmt.Errorf("click consumer needs a shared store, got %q", opts.Store)
		}

		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		primary, err := do.Invoke[*LinkStore](i)
		if err != nil {
			return nil, err
		}

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        conn.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: opts.ConsumerGroup,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("redis stream subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			clicks.TopicLinkVisited,
			clicks.NewApplyHandler(primary.Repository, logger),
			logger,
		))

		return group, nil
	})
}
