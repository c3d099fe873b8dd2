// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/guregu/dynamo"
)

type DynamoDBDatabase struct {
	db              *dynamo.DB
	statisticsTable dynamo.Table
	serversTable    dynamo.Table
}

func NewDynamoDBDatabase(session *session.Session, stage string) (*DynamoDBDatabase, error) {
	ddb := &DynamoDBDatabase{db: dynamo.NewFromIface(dynamodb.New(session))}
	ddb.statisticsTable = ddb.db.Table("fractal-" + stage + "-statistics")
	ddb.serversTable = ddb.db.Table("fractal-" + stage + "-servers")
	return ddb, nil
}

// AddStatistic adds statistic.Count to the stored count, creating the item if needed.
func (ddb *DynamoDBDatabase) AddStatistic(statistic Statistic) error {
	update := ddb.statisticsTable.Update("name", statistic.Name).
		Range("day", statistic.Day).
		Add("count", statistic.Count)
	if statistic.TTL != 0 {
		update = update.Set("ttl", statistic.TTL)
	}
	return update.Run()
}

func (ddb *DynamoDBDatabase) ReadStatistics() (statistics []Statistic, err error) {
	err = ddb.statisticsTable.Scan().All(&statistics)
	return
}

func (ddb *DynamoDBDatabase) UpdateServer(server Server) error {
	return ddb.serversTable.Put(server).Run()
}

func (ddb *DynamoDBDatabase) ReadServers() (servers []Server, err error) {
	iter := ddb.serversTable.Scan().Iter()
	for {
		var server Server
		if !iter.Next(&server) {
			return servers, iter.Err()
		}
		servers = append(servers, server)
	}
}

func (ddb *DynamoDBDatabase) ReadServersByRegion(region string) (servers []Server, err error) {
	err = ddb.serversTable.Get("region", region).All(&servers)
	return
}
