package jobs

import (
	"context"
	"log"
	"time"

	"craftmart/internal/availability"
	"craftmart/internal/repositories"
	"craftmart/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// RestorationScheduler periodically sweeps the catalog for products whose
// capacity period or production schedule has rolled over and applies the
// resulting restoration directives.
type RestorationScheduler struct {
	scheduler  gocron.Scheduler
	productSvc services.ProductService
	products   repositories.ProductRepository
	interval   time.Duration
	batchSize  int
}

func NewRestorationScheduler(productSvc services.ProductService, products repositories.ProductRepository, interval time.Duration) (*RestorationScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	rs := &RestorationScheduler{
		scheduler:  scheduler,
		productSvc: productSvc,
		products:   products,
		interval:   interval,
		batchSize:  500,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(rs.Sweep, context.Background()),
		gocron.WithName("capacity-restoration-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (rs *RestorationScheduler) Start() {
	log.Printf("Starting restoration scheduler (interval: %s)", rs.interval)
	rs.scheduler.Start()
}

func (rs *RestorationScheduler) Stop() error {
	log.Printf("Stopping restoration scheduler")
	return rs.scheduler.Shutdown()
}

// Sweep walks the catalog in pages, collects due directives, and applies
// them through the product service.
func (rs *RestorationScheduler) Sweep(ctx context.Context) {
	now := time.Now()
	var totalApplied int

	for offset := 0; ; offset += rs.batchSize {
		products, err := rs.products.List(ctx, rs.batchSize, offset)
		if err != nil {
			log.Printf("WARN: restoration sweep aborted at offset %d: %v", offset, err)
			return
		}
		if len(products) == 0 {
			break
		}

		directives := availability.CheckRestorations(products, now)
		if len(directives) > 0 {
			applied, err := rs.productSvc.ApplyRestorations(ctx, directives)
			totalApplied += applied
			if err != nil {
				log.Printf("WARN: restoration sweep applied %d/%d directives in batch: %v", applied, len(directives), err)
			}
		}

		if len(products) < rs.batchSize {
			break
		}
	}

	if totalApplied > 0 {
		log.Printf("Restoration sweep applied %d directive(s)", totalApplied)
	}
}
