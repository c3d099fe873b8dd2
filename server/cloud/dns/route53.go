// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package dns

import (
	"fmt"
	"net"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/route53"
)

type Route53DNS struct {
	svc    *route53.Route53
	domain string
	zoneID string
}

func NewRoute53DNS(session *session.Session, domain string, zoneID string) (*Route53DNS, error) {
	return &Route53DNS{
		svc:    route53.New(session),
		domain: domain,
		zoneID: zoneID,
	}, nil
}

// RecordName is the A record of a server slot.
func RecordName(region string, slot int, domain string) string {
	return fmt.Sprintf("terrain-%s-%d.%s", region, slot, domain)
}

func (route53DNS *Route53DNS) UpdateRoute(region string, slot int, address net.IP) error {
	record := &route53.ResourceRecordSet{
		Name:            aws.String(RecordName(region, slot, route53DNS.domain)),
		Type:            aws.String(route53.RRTypeA),
		TTL:             aws.Int64(60),
		ResourceRecords: []*route53.ResourceRecord{{Value: aws.String(address.String())}},
	}

	_, err := route53DNS.svc.ChangeResourceRecordSets(&route53.ChangeResourceRecordSetsInput{
		ChangeBatch: &route53.ChangeBatch{
			Changes: []*route53.Change{{
				Action:            aws.String(route53.ChangeActionUpsert),
				ResourceRecordSet: record,
			}},
		},
		HostedZoneId: aws.String(route53DNS.zoneID),
	})
	return err
}
