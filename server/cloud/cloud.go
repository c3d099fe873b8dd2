// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud registers the server on AWS and publishes generation statistics.
// Generated terrain is never stored.
package cloud

import (
	"errors"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SoftbearStudios/fractal/server/cloud/db"
	"github.com/SoftbearStudios/fractal/server/cloud/dns"
	"github.com/SoftbearStudios/fractal/server/cloud/fs"
	jsoniter "github.com/json-iterator/go"
)

const (
	UpdatePeriod = 30 * time.Second

	day           = int64(60 * 60 * 24)
	statisticDays = 30
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// A nil cloud is valid to use with any methods (acts as a no-op)
// This just means server is in offline mode
type Cloud struct {
	region     string
	serverSlot int
	ip         net.IP
	database   db.Database
	dns        dns.DNS
	fs         fs.Filesystem

	// Generations not yet flushed, by statistic name
	mutex   sync.Mutex
	pending map[string]int
}

func (cloud *Cloud) String() string {
	var builder strings.Builder
	builder.WriteByte('[')
	if cloud == nil {
		builder.WriteString("offline")
	} else {
		builder.WriteString(cloud.region)
		builder.WriteByte(' ')
		builder.WriteString(strconv.Itoa(cloud.serverSlot))
		builder.WriteByte(' ')
		builder.WriteString(cloud.ip.String())
	}
	builder.WriteByte(']')
	return builder.String()
}

// New connects to AWS using EC2 user data. Returns nil cloud on error.
func New() (*Cloud, error) {
	userData, err := loadUserData()
	if err != nil {
		return nil, err
	}

	ip, err := getPublicIP()
	if err != nil {
		return nil, err
	}
	session, err := getAWSSession(userData.Region)
	if err != nil {
		return nil, err
	}

	database, err := db.NewDynamoDBDatabase(session, userData.Stage)
	if err != nil {
		return nil, err
	}
	route53, err := dns.NewRoute53DNS(session, userData.Domain, userData.Route53ZoneID)
	if err != nil {
		return nil, err
	}
	s3, err := fs.NewS3Filesystem(session, userData.Stage)
	if err != nil {
		return nil, err
	}

	return newCloud(userData.Region, userData.ServerSlots, ip, database, route53, s3)
}

func newCloud(region string, serverSlots int, ip net.IP, database db.Database, d dns.DNS, f fs.Filesystem) (*Cloud, error) {
	cloud := &Cloud{
		region:   region,
		ip:       ip,
		database: database,
		dns:      d,
		fs:       f,
		pending:  make(map[string]int),
	}

	servers, err := database.ReadServersByRegion(region)
	if err != nil {
		return nil, err
	}

	cloud.serverSlot = allocateSlot(servers, ip, serverSlots)
	if cloud.serverSlot == -1 {
		return nil, errors.New("no empty server slot")
	}

	if err = cloud.dns.UpdateRoute(cloud.region, cloud.serverSlot, cloud.ip); err != nil {
		return nil, err
	}

	if err = cloud.UpdateServer(0); err != nil {
		return nil, err
	}

	return cloud, nil
}

// allocateSlot reclaims the slot registered to ip, or else takes the lowest free slot.
// Returns -1 if every slot is taken.
func allocateSlot(servers []db.Server, ip net.IP, serverSlots int) int {
	taken := make(map[int]bool, len(servers))
	for _, server := range servers {
		if ip.Equal(server.IP) {
			return server.Slot
		}
		taken[server.Slot] = true
	}

	for slot := 0; slot < serverSlots; slot++ {
		if !taken[slot] {
			return slot
		}
	}
	return -1
}

// Call at least every UpdatePeriod
func (cloud *Cloud) UpdateServer(clients int) error {
	if cloud == nil {
		return nil
	}
	return cloud.database.UpdateServer(db.Server{
		Region:  cloud.region,
		Slot:    cloud.serverSlot,
		IP:      cloud.ip,
		Clients: clients,
		TTL:     time.Now().Unix() + int64(UpdatePeriod/time.Second) + 5,
	})
}

func (cloud *Cloud) UpdatePeriod() time.Duration {
	return UpdatePeriod
}

// StatisticName groups generations by source and detail.
func StatisticName(source string, detail int) string {
	return source + "/" + strconv.Itoa(detail)
}

func (cloud *Cloud) IncrementGenerationStatistic(source string, detail int) {
	if cloud == nil {
		return
	}
	cloud.mutex.Lock()
	cloud.pending[StatisticName(source, detail)]++
	cloud.mutex.Unlock()
}

// FlushStatistics adds pending counts to the database and publishes statistics.json.
func (cloud *Cloud) FlushStatistics() error {
	if cloud == nil {
		return nil
	}

	cloud.mutex.Lock()
	pending := cloud.pending
	cloud.pending = make(map[string]int)
	cloud.mutex.Unlock()

	now := time.Now().Unix()
	today := now / day

	for name, count := range pending {
		err := cloud.database.AddStatistic(db.Statistic{
			Name:  name,
			Day:   today,
			Count: count,
			TTL:   now + day*statisticDays,
		})
		if err != nil {
			// Keep unflushed counts for next time
			cloud.mutex.Lock()
			for name, count := range pending {
				cloud.pending[name] += count
			}
			cloud.mutex.Unlock()
			return err
		}
		delete(pending, name)
	}

	statistics, err := cloud.database.ReadStatistics()
	if err != nil {
		return err
	}

	summary, err := json.Marshal(summarize(statistics, today))
	if err != nil {
		return err
	}
	return cloud.fs.UploadStaticFile("statistics.json", 60, summary)
}

// Summary is published as statistics.json.
type Summary struct {
	Name  string `json:"name"`
	Day   int    `json:"day"`  // generations today
	Week  int    `json:"week"` // generations in the last 7 days
	Total int    `json:"total"`
}

func summarize(statistics []db.Statistic, today int64) []Summary {
	byName := make(map[string]*Summary)
	for _, statistic := range statistics {
		summary := byName[statistic.Name]
		if summary == nil {
			summary = &Summary{Name: statistic.Name}
			byName[statistic.Name] = summary
		}

		summary.Total += statistic.Count
		if statistic.Day > today-7 {
			summary.Week += statistic.Count
		}
		if statistic.Day == today {
			summary.Day += statistic.Count
		}
	}

	summaries := make([]Summary, 0, len(byName))
	for _, summary := range byName {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}
